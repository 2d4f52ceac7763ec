package concierge

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voyago/models"
	"voyago/services/nlu"
)

type fakeEngine struct {
	candidates []models.Candidate
	bundles    []models.Bundle
}

func (f *fakeEngine) GetRecommendations(dest string, budget *float64, category models.CandidateType, date string) ([]models.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeEngine) CreateBundles(dest, origin, date string, budget *float64, amenities []string) ([]models.Bundle, error) {
	return f.bundles, nil
}

type fakeWatches struct {
	created []models.Watch
}

func (f *fakeWatches) Create(w models.Watch) error { f.created = append(f.created, w); return nil }
func (f *fakeWatches) ListByUser(string) ([]models.Watch, error)          { return nil, nil }
func (f *fakeWatches) FindMatching(string, float64) ([]models.Watch, error) { return nil, nil }
func (f *fakeWatches) Deactivate(string) error                            { return nil }
func (f *fakeWatches) CountActive() (int64, error)                        { return 0, nil }

type fakeBookings struct {
	bookings []models.Booking
	items    [][]models.BookingItem
}

func (f *fakeBookings) Create(b models.Booking, items []models.BookingItem) error {
	f.bookings = append(f.bookings, b)
	f.items = append(f.items, items)
	return nil
}

func testClock() time.Time {
	return time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
}

func newTestManager(engine *fakeEngine, watches *fakeWatches, bookings *fakeBookings) *DialogueManager {
	return NewDialogueManager(
		"session-1", "user_123",
		nlu.NewExtractor(nlu.DefaultVocabulary()),
		nlu.NewDateNormalizer(2025, testClock),
		engine, watches, bookings, nil, zap.NewNop())
}

func decodePrompt(t *testing.T, reply string) prompt {
	t.Helper()
	var p prompt
	require.NoError(t, json.Unmarshal([]byte(reply), &p), "reply %q is not a prompt", reply)
	return p
}

func TestHandleUtterance_SlotFillingFlightFlow(t *testing.T) {
	m := newTestManager(&fakeEngine{}, &fakeWatches{}, &fakeBookings{})
	ctx := context.Background()

	// No destination yet: the concierge asks for one.
	reply := m.HandleUtterance(ctx, "Plan a trip")
	p := decodePrompt(t, reply)
	assert.Equal(t, "I'd love to help! Where are we going?", p.Text)
	assert.Equal(t, models.SlotDestination, m.Context().AwaitingSlot)

	// The bare city answers the pending slot.
	reply = m.HandleUtterance(ctx, "Goa")
	p = decodePrompt(t, reply)
	assert.Equal(t, "Goa", m.Context().Destination)
	assert.Equal(t, "When are you planning to visit Goa?", p.Text)

	reply = m.HandleUtterance(ctx, "December 25th")
	p = decodePrompt(t, reply)
	assert.Equal(t, "Great! Where will you be flying from?", p.Text)

	// "Delhi" extracts as a destination; the pending origin slot must claim
	// it without clobbering Goa.
	reply = m.HandleUtterance(ctx, "Delhi")
	p = decodePrompt(t, reply)
	assert.Equal(t, "Goa", m.Context().Destination)
	assert.Equal(t, "Delhi", m.Context().Origin)
	assert.Equal(t, "How many people are traveling?", p.Text)
	assert.Equal(t, []string{"Just me", "2 Adults", "Family of 4"}, p.Actions)

	// All slots filled: the turn acknowledges and promises a follow-up.
	reply = m.HandleUtterance(ctx, "2 adults")
	require.NotNil(t, m.Context().Travelers)
	assert.Equal(t, 2, *m.Context().Travelers)
	assert.Contains(t, reply, "[WAIT]")
	assert.Contains(t, reply, "Goa")
	assert.Contains(t, reply, "2025-12-25")
}

func TestHandleUtterance_HotelFlowComputesCheckOutFromNights(t *testing.T) {
	m := newTestManager(&fakeEngine{}, &fakeWatches{}, &fakeBookings{})
	ctx := context.Background()

	reply := m.HandleUtterance(ctx, "Find me a hotel in Goa with a pool")
	p := decodePrompt(t, reply)
	assert.Equal(t, "When are you planning to check in to Goa?", p.Text)

	reply = m.HandleUtterance(ctx, "December 20th")
	p = decodePrompt(t, reply)
	assert.Equal(t, "2025-12-20", m.Context().CheckIn)
	assert.Equal(t, "And when will you be checking out?", p.Text)

	// A duration answers the check-out question.
	reply = m.HandleUtterance(ctx, "3 nights")
	assert.Equal(t, "2025-12-23", m.Context().CheckOut)
	require.NotNil(t, m.Context().Nights)
	assert.Equal(t, 3, *m.Context().Nights)

	// Hotel flow skips the origin question entirely.
	p = decodePrompt(t, reply)
	assert.Equal(t, "How many people are traveling?", p.Text)
}

func TestHandleUtterance_WatchRegistersWithDefaultTarget(t *testing.T) {
	watches := &fakeWatches{}
	m := newTestManager(&fakeEngine{}, watches, &fakeBookings{})

	reply := m.HandleUtterance(context.Background(), "Watch Goa for me")
	require.Len(t, watches.created, 1)
	assert.Equal(t, "Goa", watches.created[0].Destination)
	assert.Equal(t, 2000.0, watches.created[0].TargetPrice)
	assert.True(t, watches.created[0].IsActive)
	assert.Contains(t, reply, "Watch Set")
}

func TestHandleUtterance_WatchUsesBudgetAsTarget(t *testing.T) {
	watches := &fakeWatches{}
	m := newTestManager(&fakeEngine{}, watches, &fakeBookings{})

	m.HandleUtterance(context.Background(), "Watch Goa under $500")
	require.Len(t, watches.created, 1)
	assert.Equal(t, 500.0, watches.created[0].TargetPrice)
}

func TestHandleUtterance_BookWithoutResults(t *testing.T) {
	m := newTestManager(&fakeEngine{}, &fakeWatches{}, &fakeBookings{})

	reply := m.HandleUtterance(context.Background(), "Book it")
	assert.Contains(t, reply, "haven't looked at any options yet")
}

func TestHandleUtterance_BookBundleByIndex(t *testing.T) {
	bookings := &fakeBookings{}
	m := newTestManager(&fakeEngine{}, &fakeWatches{}, bookings)

	first := &models.Bundle{
		ID:         "b_f1_h1",
		Flight:     models.Flight{ID: "f1", Airline: "IndiGo", Price: 300},
		Lodging:    models.Lodging{ID: "h1", Area: "Goa", Price: 200},
		TotalPrice: 500,
		Policies:   models.PolicySnippets{Cancellation: "Free cancellation"},
	}
	second := &models.Bundle{
		ID:         "b_f2_h2",
		Flight:     models.Flight{ID: "f2", Airline: "Vistara", Price: 600},
		Lodging:    models.Lodging{ID: "h2", Area: "Goa", Price: 400},
		TotalPrice: 1000,
		Policies:   models.PolicySnippets{Cancellation: "Non-refundable"},
	}
	m.Context().Destination = "Goa"
	m.Context().Dates = "2025-12-25"
	m.Context().LastRecommendations = []models.Recommendation{
		{Bundle: first}, {Bundle: second},
	}

	reply := m.HandleUtterance(context.Background(), "Book option 2")

	require.Len(t, bookings.bookings, 1)
	booked := bookings.bookings[0]
	assert.Equal(t, "confirmed", booked.Status)
	assert.InDelta(t, 1000+120+25, booked.TotalAmount, 0.01)
	assert.True(t, strings.HasPrefix(booked.Reference, "B-"))

	require.Len(t, bookings.items[0], 2)
	assert.Equal(t, "FLIGHT", bookings.items[0][0].ItemType)
	assert.Equal(t, "f2", bookings.items[0][0].ItemID)
	assert.Equal(t, "LODGING", bookings.items[0][1].ItemType)

	assert.Contains(t, reply, "Booking Confirmed")
	assert.Contains(t, reply, "Vistara")
	assert.Contains(t, reply, "$1145.00")
	assert.Contains(t, reply, booked.Reference)
}

func TestHandleUtterance_BookIndexOutOfRange(t *testing.T) {
	bookings := &fakeBookings{}
	m := newTestManager(&fakeEngine{}, &fakeWatches{}, bookings)
	m.Context().LastRecommendations = []models.Recommendation{
		{Candidate: &models.Candidate{Type: models.CandidateFlight, Flight: &models.Flight{ID: "f1", Airline: "IndiGo", Price: 300}}},
	}

	reply := m.HandleUtterance(context.Background(), "Book option 5")
	assert.Empty(t, bookings.bookings)
	assert.Contains(t, reply, "Which one did you mean?")
}

func TestGenerateFollowup_RunsDeferredSearch(t *testing.T) {
	engine := &fakeEngine{candidates: []models.Candidate{
		{Type: models.CandidateFlight, Flight: &models.Flight{ID: "f1", Airline: "IndiGo", Price: 250, DepartureDate: "2025-12-25", SeatsLeft: 40}},
	}}
	m := newTestManager(engine, &fakeWatches{}, &fakeBookings{})
	m.Context().Destination = "Goa"
	m.Context().Dates = "2025-12-25"

	reply := m.GenerateFollowup(context.Background())
	assert.Contains(t, reply, "top deals for Goa")
	assert.Contains(t, reply, "IndiGo")
	require.Len(t, m.Context().LastRecommendations, 1)
}

func TestGenerateFollowup_WithoutContext(t *testing.T) {
	m := newTestManager(&fakeEngine{}, &fakeWatches{}, &fakeBookings{})

	reply := m.GenerateFollowup(context.Background())
	assert.Contains(t, reply, "Where were we going?")
}

func TestGenerateNudge(t *testing.T) {
	m := newTestManager(&fakeEngine{}, &fakeWatches{}, &fakeBookings{})
	assert.Contains(t, m.GenerateNudge(), "Tell me a destination")

	m.Context().Destination = "Goa"
	assert.Contains(t, m.GenerateNudge(), "watch Goa")
}

// fakeStore is an in-memory ContextStore.
type fakeStore struct {
	snapshots map[string]*models.ConversationContext
}

func newFakeStore() *fakeStore {
	return &fakeStore{snapshots: map[string]*models.ConversationContext{}}
}

func (f *fakeStore) Get(_ context.Context, sessionID string) (*models.ConversationContext, error) {
	if convo, ok := f.snapshots[sessionID]; ok {
		return convo, nil
	}
	return &models.ConversationContext{}, nil
}

func (f *fakeStore) Set(_ context.Context, sessionID string, convo *models.ConversationContext) error {
	f.snapshots[sessionID] = convo
	return nil
}

func (f *fakeStore) Clear(_ context.Context, sessionID string) error {
	delete(f.snapshots, sessionID)
	return nil
}

func TestRestore_ResumesSnapshottedSession(t *testing.T) {
	store := newFakeStore()
	store.snapshots["session-1"] = &models.ConversationContext{Destination: "Goa", Dates: "2025-12-25"}

	m := NewDialogueManager(
		"session-1", "user_123",
		nlu.NewExtractor(nlu.DefaultVocabulary()),
		nlu.NewDateNormalizer(2025, testClock),
		&fakeEngine{}, &fakeWatches{}, &fakeBookings{}, store, zap.NewNop())

	m.Restore(context.Background())
	assert.Equal(t, "Goa", m.Context().Destination)
	assert.Equal(t, "2025-12-25", m.Context().Dates)

	// A fresh session id keeps the empty context.
	m2 := NewDialogueManager(
		"session-2", "user_123",
		nlu.NewExtractor(nlu.DefaultVocabulary()),
		nlu.NewDateNormalizer(2025, testClock),
		&fakeEngine{}, &fakeWatches{}, &fakeBookings{}, store, zap.NewNop())
	m2.Restore(context.Background())
	assert.Empty(t, m2.Context().Destination)

	// Close drops the snapshot so a deliberate disconnect does not resume.
	m.Close(context.Background())
	_, ok := store.snapshots["session-1"]
	assert.False(t, ok)
}
