package deals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voyago/models"
)

type fakeWatchRepo struct {
	watches []models.Watch
}

func (f *fakeWatchRepo) Create(w models.Watch) error { f.watches = append(f.watches, w); return nil }

func (f *fakeWatchRepo) ListByUser(userID string) ([]models.Watch, error) {
	var out []models.Watch
	for _, w := range f.watches {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWatchRepo) FindMatching(destination string, price float64) ([]models.Watch, error) {
	var out []models.Watch
	for _, w := range f.watches {
		if w.IsActive && w.Destination == destination && w.TargetPrice >= price {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWatchRepo) Deactivate(id string) error {
	for i := range f.watches {
		if f.watches[i].ID == id {
			f.watches[i].IsActive = false
			return nil
		}
	}
	return nil
}

func (f *fakeWatchRepo) CountActive() (int64, error) {
	var n int64
	for _, w := range f.watches {
		if w.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeBroadcaster struct {
	sent []string
}

func (f *fakeBroadcaster) Broadcast(text string) { f.sent = append(f.sent, text) }

func TestAlertService_BroadcastsOnMatchingWatch(t *testing.T) {
	watches := &fakeWatchRepo{watches: []models.Watch{
		{ID: "w1", UserID: "u1", Destination: "Goa", TargetPrice: 500, IsActive: true},
	}}
	sink := &fakeBroadcaster{}
	svc := NewAlertService(watches, sink, zap.NewNop())

	svc.Handle(models.DealEvent{
		Type:          "deal_found",
		Destination:   "Goa",
		Price:         400,
		OriginalPrice: 600,
		Tags:          []string{"33% OFF"},
	})

	require.Len(t, sink.sent, 1)
	assert.Contains(t, sink.sent[0], "DEAL ALERT")
	assert.Contains(t, sink.sent[0], "Goa")
	assert.Contains(t, sink.sent[0], "$400.00")
	assert.Contains(t, sink.sent[0], "33% OFF")
}

func TestAlertService_IgnoresDealAboveTarget(t *testing.T) {
	watches := &fakeWatchRepo{watches: []models.Watch{
		{ID: "w1", UserID: "u1", Destination: "Goa", TargetPrice: 300, IsActive: true},
	}}
	sink := &fakeBroadcaster{}
	svc := NewAlertService(watches, sink, zap.NewNop())

	svc.Handle(models.DealEvent{Destination: "Goa", Price: 400})
	assert.Empty(t, sink.sent)
}

func TestAlertService_IgnoresInactiveWatch(t *testing.T) {
	watches := &fakeWatchRepo{watches: []models.Watch{
		{ID: "w1", UserID: "u1", Destination: "Goa", TargetPrice: 500, IsActive: false},
	}}
	sink := &fakeBroadcaster{}
	svc := NewAlertService(watches, sink, zap.NewNop())

	svc.Handle(models.DealEvent{Destination: "Goa", Price: 400})
	assert.Empty(t, sink.sent)
}

func TestFormatAlert(t *testing.T) {
	text := FormatAlert(models.DealEvent{
		Destination:   "Goa",
		Price:         400,
		OriginalPrice: 600,
		Tags:          []string{"33% OFF", "Selling Fast"},
		Details:       "IndiGo flight to Goa",
	})
	assert.Equal(t,
		"🔥 DEAL ALERT: Goa for $400.00 (was $600.00) [33% OFF, Selling Fast] - IndiGo flight to Goa",
		text)
}
