package concierge

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "voyago/database/repository/booking"
	watchRepo "voyago/database/repository/watch"
	"voyago/models"
	"voyago/services/deals"
	"voyago/services/nlu"
)

const defaultWatchTarget = 2000

// DialogueManager drives one session's conversation. Each websocket
// connection owns exactly one manager; the manager owns the session's
// ConversationContext and mirrors it into the ContextStore after every
// turn. Managers are not safe for concurrent use; the connection's read
// loop serializes turns.
type DialogueManager struct {
	sessionID string
	userID    string

	extractor *nlu.Extractor
	dates     *nlu.DateNormalizer
	engine    deals.BundleEngine
	watches   watchRepo.WatchRepository
	bookings  bookingRepo.BookingRepository
	store     ContextStore
	logger    *zap.Logger

	convo *models.ConversationContext
}

// NewDialogueManager creates a manager with a fresh conversation context.
func NewDialogueManager(
	sessionID, userID string,
	extractor *nlu.Extractor,
	dates *nlu.DateNormalizer,
	engine deals.BundleEngine,
	watches watchRepo.WatchRepository,
	bookings bookingRepo.BookingRepository,
	store ContextStore,
	logger *zap.Logger,
) *DialogueManager {
	return &DialogueManager{
		sessionID: sessionID,
		userID:    userID,
		extractor: extractor,
		dates:     dates,
		engine:    engine,
		watches:   watches,
		bookings:  bookings,
		store:     store,
		logger:    logger,
		convo:     &models.ConversationContext{},
	}
}

// Context exposes the live conversation state, mainly for inspection.
func (m *DialogueManager) Context() *models.ConversationContext {
	return m.convo
}

// SetUser rebinds the session to an authenticated identity. Sessions start
// on the demo identity and upgrade when the client presents a token.
func (m *DialogueManager) SetUser(userID string) {
	if userID != "" {
		m.userID = userID
	}
}

// Restore loads a prior context snapshot for this session id. A client
// reconnecting after a process restart picks up where it left off; a fresh
// or expired session keeps the empty context.
func (m *DialogueManager) Restore(ctx context.Context) {
	if m.store == nil {
		return
	}
	convo, err := m.store.Get(ctx, m.sessionID)
	if err != nil {
		m.logger.Warn("failed to restore context snapshot",
			zap.String("session", m.sessionID), zap.Error(err))
		return
	}
	if convo != nil {
		m.convo = convo
	}
}

// Close clears the session's context snapshot. The in-memory context dies
// with the manager.
func (m *DialogueManager) Close(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.Clear(ctx, m.sessionID); err != nil {
		m.logger.Warn("failed to clear context snapshot",
			zap.String("session", m.sessionID), zap.Error(err))
	}
}

var digitsRe = regexp.MustCompile(`\d+`)

// HandleUtterance runs one full turn: extract, consume any pending slot
// answer, merge, gate on missing slots, then dispatch on intent. The reply
// may carry a trailing "[WAIT]" marker telling the transport to schedule a
// delayed follow-up.
func (m *DialogueManager) HandleUtterance(ctx context.Context, utterance string) string {
	slots := m.extractor.Extract(utterance)
	lower := strings.ToLower(utterance)

	m.consumeAwaitedSlot(slots, utterance, lower)
	m.mergeSlots(slots)

	reply := m.dispatch(slots, lower)
	m.snapshot(ctx)
	return reply
}

// consumeAwaitedSlot interprets the utterance as the answer to the slot we
// asked for last turn, with recovery when the extractor mislabels it. For
// example an origin answer of "Delhi" is extracted as a destination; it
// must not clobber the destination already on record.
func (m *DialogueManager) consumeAwaitedSlot(slots models.ExtractedSlots, utterance, lower string) {
	defer func() {
		if m.convo.AwaitingSlot != models.SlotNone {
			m.convo.AwaitingSlot = models.SlotNone
		}
	}()

	switch m.convo.AwaitingSlot {
	case models.SlotDestination:
		if m.convo.Destination == "" {
			if slots.Destination != "" {
				m.convo.Destination = slots.Destination
			} else {
				m.convo.Destination = titleWords(strings.TrimSpace(utterance))
			}
		}

	case models.SlotDates:
		if m.convo.Dates == "" {
			raw := slots.Dates
			if raw == "" {
				raw = strings.TrimSpace(utterance)
			}
			m.convo.Dates = raw
		}

	case models.SlotCheckIn:
		if m.convo.CheckIn == "" {
			raw := slots.Dates
			if raw == "" {
				raw = strings.TrimSpace(utterance)
			}
			if normalized, ok := m.dates.Normalize(raw); ok {
				m.convo.CheckIn = normalized
			}
		}

	case models.SlotCheckOut:
		if m.convo.CheckOut == "" {
			if strings.Contains(lower, "night") {
				// "3 nights" answers a check-out question by duration.
				if d := digitsRe.FindString(lower); d != "" {
					nights, _ := strconv.Atoi(d)
					m.convo.Nights = &nights
					if in, err := time.Parse("2006-01-02", m.convo.CheckIn); err == nil {
						m.convo.CheckOut = in.AddDate(0, 0, nights).Format("2006-01-02")
					}
				}
			} else {
				raw := slots.Dates
				if raw == "" {
					raw = strings.TrimSpace(utterance)
				}
				if normalized, ok := m.dates.Normalize(raw); ok {
					m.convo.CheckOut = normalized
				}
			}
		}

	case models.SlotOrigin:
		if m.convo.Origin == "" {
			candidate := slots.Origin
			if candidate == "" {
				candidate = slots.Destination
			}
			if candidate == "" {
				candidate = titleWords(strings.TrimSpace(utterance))
			}
			if !strings.EqualFold(candidate, m.convo.Destination) {
				m.convo.Origin = candidate
			}
		}

	case models.SlotTravelers:
		if m.convo.Travelers == nil {
			if slots.Travelers != nil {
				m.convo.Travelers = slots.Travelers
			} else if d := digitsRe.FindString(lower); d != "" {
				n, _ := strconv.Atoi(d)
				m.convo.Travelers = &n
			} else if strings.Contains(lower, "me") {
				one := 1
				m.convo.Travelers = &one
			}
		}
	}
}

// mergeSlots folds freshly extracted slots into the context. Destination
// never overwrites; a later "from Delhi" answer extracting Delhi as a
// destination must not replace the trip's real destination.
func (m *DialogueManager) mergeSlots(slots models.ExtractedSlots) {
	if slots.Destination != "" && m.convo.Destination == "" {
		m.convo.Destination = slots.Destination
	}
	if slots.Origin != "" {
		m.convo.Origin = slots.Origin
	}
	if slots.Budget != nil {
		m.convo.Budget = slots.Budget
	}
	if slots.Dates != "" && looksLikeDate(slots.Dates) {
		m.convo.Dates = slots.Dates
	}
	if slots.Travelers != nil {
		m.convo.Travelers = slots.Travelers
	}
	if slots.Nights != nil {
		m.convo.Nights = slots.Nights
	}
	if len(slots.Amenities) > 0 {
		m.convo.Amenities = slots.Amenities
	}
}

// dispatch gates on missing slots, then routes the turn by intent.
func (m *DialogueManager) dispatch(slots models.ExtractedSlots, lower string) string {
	hotelFlow := strings.Contains(lower, "hotel") ||
		m.convo.CheckIn != "" ||
		len(m.convo.Amenities) > 0

	intent := slots.Intent
	if (intent == models.IntentSearch || intent == models.IntentRefine) && len(m.convo.LastRecommendations) == 0 {
		if ask := m.askForMissingSlot(hotelFlow); ask != "" {
			return ask
		}
	}

	switch intent {
	case models.IntentBundle:
		return m.handleBundles()
	case models.IntentShowFlights:
		return m.handleShowFlights()
	case models.IntentRefine:
		return m.handleRefine(lower)
	case models.IntentWatch:
		return m.handleWatch()
	case models.IntentBook:
		return m.handleBook(slots)
	}

	// Plain search. The acknowledgement carries the wait marker so the
	// transport schedules the real search as a follow-up.
	if m.convo.Dates == "" && m.convo.CheckIn == "" {
		if m.convo.Destination != "" {
			return fmt.Sprintf("I see you want to go to %s. When are you planning to travel?", m.convo.Destination)
		}
		return "Where would you like to go?"
	}
	return fmt.Sprintf(
		"Okay! So you're looking for a trip to %s on %s.\n\nI'm running a quick search now, and will let you know what I find! [WAIT]",
		m.convo.Destination, m.travelDate())
}

// askForMissingSlot returns the next prompt in the fixed gate order, or ""
// when every required slot is filled. Flight and hotel flows require
// different date slots; origin only matters for flights.
func (m *DialogueManager) askForMissingSlot(hotelFlow bool) string {
	if m.convo.Destination == "" {
		m.convo.AwaitingSlot = models.SlotDestination
		return promptJSON("I'd love to help! Where are we going?")
	}

	if m.convo.Dates == "" && m.convo.CheckIn == "" {
		if hotelFlow {
			m.convo.AwaitingSlot = models.SlotCheckIn
			return promptJSON(fmt.Sprintf("When are you planning to check in to %s?", m.convo.Destination))
		}
		m.convo.AwaitingSlot = models.SlotDates
		return promptJSON(fmt.Sprintf("When are you planning to visit %s?", m.convo.Destination))
	}

	if hotelFlow && m.convo.CheckIn != "" && m.convo.CheckOut == "" {
		m.convo.AwaitingSlot = models.SlotCheckOut
		return promptJSON("And when will you be checking out?")
	}

	if !hotelFlow && m.convo.Origin == "" {
		m.convo.AwaitingSlot = models.SlotOrigin
		return promptJSON("Great! Where will you be flying from?")
	}

	if m.convo.Travelers == nil {
		m.convo.AwaitingSlot = models.SlotTravelers
		return promptJSON("How many people are traveling?", "Just me", "2 Adults", "Family of 4")
	}
	return ""
}

func (m *DialogueManager) handleBundles() string {
	if m.convo.Destination == "" {
		return "I'd love to show you bundles! Where are you going?"
	}

	bundles, err := m.engine.CreateBundles(
		m.convo.Destination, m.convo.Origin, m.travelDate(), m.convo.Budget, m.convo.Amenities)
	if err != nil {
		m.logger.Error("bundle query failed", zap.String("session", m.sessionID), zap.Error(err))
		return "Something went wrong searching for bundles. Please try again."
	}
	if len(bundles) == 0 {
		return fmt.Sprintf("No bundles found for %s. Try 'Show me hotels' or 'Show me flights' first.", m.convo.Destination)
	}

	m.convo.LastRecommendations = nil
	for i := range bundles {
		b := bundles[i]
		m.convo.LastRecommendations = append(m.convo.LastRecommendations, models.Recommendation{Bundle: &b})
	}
	return formatBundles(m.convo.Destination, bundles)
}

func (m *DialogueManager) handleShowFlights() string {
	if m.convo.Destination == "" {
		return "I'd love to show you flights! Where are you going?"
	}

	flights, err := m.engine.GetRecommendations(
		m.convo.Destination, m.convo.Budget, models.CandidateFlight, m.travelDate())
	if err != nil {
		m.logger.Error("flight query failed", zap.String("session", m.sessionID), zap.Error(err))
		return "Something went wrong searching for flights. Please try again."
	}
	m.rememberCandidates(flights)

	if len(flights) == 0 {
		return fmt.Sprintf("No flights found to %s.", m.convo.Destination)
	}
	return formatFlights(m.convo.Destination, flights)
}

func (m *DialogueManager) handleRefine(lower string) string {
	if m.convo.Destination == "" {
		return "I'd love to refine the search, but could you remind me where we are going?"
	}

	wantBundle := strings.Contains(lower, "bundle") ||
		(len(m.convo.Amenities) > 0 && !strings.Contains(lower, "flight"))
	if wantBundle {
		bundles, err := m.engine.CreateBundles(
			m.convo.Destination, m.convo.Origin, m.travelDate(), m.convo.Budget, m.convo.Amenities)
		if err != nil {
			m.logger.Error("bundle refine failed", zap.String("session", m.sessionID), zap.Error(err))
			return "Something went wrong refining your options. Please try again."
		}
		if len(bundles) > 0 {
			m.convo.LastRecommendations = nil
			for i := range bundles {
				b := bundles[i]
				m.convo.LastRecommendations = append(m.convo.LastRecommendations, models.Recommendation{Bundle: &b})
			}
			return formatRefinedBundles(m.convo.Destination, bundles, m.convo.Amenities)
		}
		// No bundle survived the amenity filter; fall through to a flat search.
	}

	category := models.CandidateFlight
	if strings.Contains(lower, "hotel") || len(m.convo.Amenities) > 0 {
		category = models.CandidateLodging
	}

	recs, err := m.engine.GetRecommendations(m.convo.Destination, m.convo.Budget, category, m.travelDate())
	if err != nil {
		m.logger.Error("refine query failed", zap.String("session", m.sessionID), zap.Error(err))
		return "Something went wrong refining your options. Please try again."
	}
	m.rememberCandidates(recs)

	if len(recs) == 0 {
		return fmt.Sprintf("I couldn't find any %ss for %s with those filters. Shall I try a new search?",
			strings.ToLower(string(category)), m.convo.Destination)
	}
	return formatCandidates(m.convo.Destination, recs, category, m.convo.Amenities)
}

func (m *DialogueManager) handleWatch() string {
	if m.convo.Destination == "" {
		return "Which city should I track for you?"
	}

	target := float64(defaultWatchTarget)
	if m.convo.Budget != nil {
		target = *m.convo.Budget
	}

	watch := models.Watch{
		ID:          uuid.New().String(),
		UserID:      m.userID,
		Destination: m.convo.Destination,
		TargetPrice: target,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.watches.Create(watch); err != nil {
		m.logger.Error("failed to register watch", zap.String("session", m.sessionID), zap.Error(err))
		return "I couldn't set that watch up. Please try again."
	}
	return fmt.Sprintf("👀 Watch Set!\n\nI'm tracking %s packages for drops below $%.0f. I'll alert you instantly!",
		watch.Destination, watch.TargetPrice)
}

func (m *DialogueManager) handleBook(slots models.ExtractedSlots) string {
	selected, err := m.selectRecommendation(slots)
	if err != nil {
		if err == ErrNothingToBook {
			return "We haven't looked at any options yet. Try 'Show me flights' or 'Show me bundles' first!"
		}
		return fmt.Sprintf("I only showed %d options. Which one did you mean?", len(m.convo.LastRecommendations))
	}

	quote := buildQuote(selected)
	result, err := m.persistBooking(selected, quote)
	if err != nil {
		m.logger.Error("booking failed", zap.String("session", m.sessionID), zap.Error(err))
		return fmt.Sprintf("❌ Booking failed: %v", err)
	}
	return formatBookingConfirmation(selected, quote, result)
}

// selectRecommendation resolves which shown result a book intent refers to.
// Index selection is 1-based; anything else falls back to the first shown
// result.
func (m *DialogueManager) selectRecommendation(slots models.ExtractedSlots) (models.Recommendation, error) {
	if len(m.convo.LastRecommendations) == 0 {
		return models.Recommendation{}, ErrNothingToBook
	}

	if slots.SelectionIndex != nil {
		idx := *slots.SelectionIndex - 1
		if idx < 0 || idx >= len(m.convo.LastRecommendations) {
			return models.Recommendation{}, ErrSelectionOutOfRange
		}
		return m.convo.LastRecommendations[idx], nil
	}

	if slots.SelectionName != "" {
		for _, rec := range m.convo.LastRecommendations {
			if rec.Candidate != nil && rec.Candidate.Flight != nil &&
				strings.EqualFold(rec.Candidate.Flight.Airline, slots.SelectionName) {
				return rec, nil
			}
			if rec.Bundle != nil &&
				strings.EqualFold(rec.Bundle.Flight.Airline, slots.SelectionName) {
				return rec, nil
			}
		}
	}
	return m.convo.LastRecommendations[0], nil
}

func (m *DialogueManager) persistBooking(rec models.Recommendation, quote models.Quote) (models.BookingResult, error) {
	bookingID := uuid.New().String()
	reference := "B-" + strings.ToUpper(bookingID[:8])
	start := m.travelDate()
	end := m.convo.CheckOut

	booking := models.Booking{
		ID:          bookingID,
		UserID:      m.userID,
		Reference:   reference,
		Status:      "confirmed",
		TotalAmount: quote.Total,
		Currency:    "USD",
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   time.Now().UTC(),
	}

	var items []models.BookingItem
	addItem := func(itemType, itemID string, price float64) {
		items = append(items, models.BookingItem{
			ID:         uuid.New().String(),
			BookingID:  bookingID,
			ItemType:   itemType,
			ItemID:     itemID,
			Quantity:   1,
			UnitPrice:  price,
			TotalPrice: price,
			Currency:   "USD",
			StartDate:  start,
			EndDate:    end,
		})
	}

	switch {
	case rec.Bundle != nil:
		addItem("FLIGHT", rec.Bundle.Flight.ID, rec.Bundle.Flight.Price)
		addItem("LODGING", rec.Bundle.Lodging.ID, rec.Bundle.Lodging.Price)
	case rec.Candidate != nil && rec.Candidate.Flight != nil:
		addItem("FLIGHT", rec.Candidate.Flight.ID, rec.Candidate.Flight.Price)
	case rec.Candidate != nil && rec.Candidate.Lodging != nil:
		addItem("LODGING", rec.Candidate.Lodging.ID, rec.Candidate.Lodging.Price)
	}

	if err := m.bookings.Create(booking, items); err != nil {
		return models.BookingResult{}, err
	}
	return models.BookingResult{BookingID: bookingID, Reference: reference, Status: booking.Status}, nil
}

// GenerateFollowup runs the deferred search promised by a wait marker and
// formats the results.
func (m *DialogueManager) GenerateFollowup(ctx context.Context) string {
	dest := m.convo.Destination
	if dest == "" || (m.convo.Dates == "" && m.convo.CheckIn == "") {
		return "I apologize, I lost the details. Where were we going?"
	}

	recs, err := m.engine.GetRecommendations(dest, m.convo.Budget, "", m.travelDate())
	if err != nil {
		m.logger.Error("followup search failed", zap.String("session", m.sessionID), zap.Error(err))
		return "My search hit a snag. Ask me again in a moment?"
	}
	m.rememberCandidates(recs)
	m.snapshot(ctx)

	if len(recs) == 0 {
		return fmt.Sprintf("No flights found to %s.", dest)
	}
	return formatTopDeals(dest, recs, m.convo.Budget)
}

// GenerateNudge produces the idle re-engagement message.
func (m *DialogueManager) GenerateNudge() string {
	if m.convo.Destination != "" {
		return fmt.Sprintf("Still thinking about %s? I can set a price watch so you don't miss a deal. Just say 'watch %s'!",
			m.convo.Destination, m.convo.Destination)
	}
	return "Still planning? Tell me a destination and I'll find you some deals!"
}

func (m *DialogueManager) rememberCandidates(recs []models.Candidate) {
	m.convo.LastRecommendations = nil
	for i := range recs {
		c := recs[i]
		m.convo.LastRecommendations = append(m.convo.LastRecommendations, models.Recommendation{Candidate: &c})
	}
}

// travelDate returns the date the catalog should be filtered on: the hotel
// check-in when set, otherwise the normalized flight date.
func (m *DialogueManager) travelDate() string {
	if m.convo.CheckIn != "" {
		return m.convo.CheckIn
	}
	if normalized, ok := m.dates.Normalize(m.convo.Dates); ok {
		return normalized
	}
	return m.convo.Dates
}

func (m *DialogueManager) snapshot(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.Set(ctx, m.sessionID, m.convo); err != nil {
		m.logger.Warn("failed to snapshot context",
			zap.String("session", m.sessionID), zap.Error(err))
	}
}

func looksLikeDate(s string) bool {
	lower := strings.ToLower(s)
	for _, month := range []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"} {
		if strings.Contains(lower, month) {
			return true
		}
	}
	return digitsRe.MatchString(lower)
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
