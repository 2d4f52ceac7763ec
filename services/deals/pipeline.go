package deals

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	catalogRepo "voyago/database/repository/catalog"
	"voyago/events"
	"voyago/models"
)

// Pipeline runs the two streaming stages of deal detection: a simulated
// supplier feed that republishes catalog records at jittered prices, and a
// detector that classifies each observation against its 30-day average.
// The stages only communicate through the event bus.
type Pipeline struct {
	Catalog   catalogRepo.CatalogRepository
	Publisher events.Publisher
	DropRatio float64
	LowStock  int
	Logger    *zap.Logger
	rng       *rand.Rand
}

// NewPipeline builds a pipeline over the given catalog and bus.
func NewPipeline(catalog catalogRepo.CatalogRepository, pub events.Publisher, dropRatio float64, lowStock int, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Catalog:   catalog,
		Publisher: pub,
		DropRatio: dropRatio,
		LowStock:  lowStock,
		Logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RunIngestion samples one catalog record every 2-5 seconds, applies a price
// variance, and publishes the observation to the raw feed. It returns when
// ctx is cancelled.
func (p *Pipeline) RunIngestion(ctx context.Context) {
	p.Logger.Info("supplier feed simulator started")
	for {
		event, err := p.sampleEvent()
		if err != nil {
			p.Logger.Warn("failed to sample catalog record", zap.Error(err))
		} else if event == nil {
			// Empty catalog. Keep ticking; records may be seeded later.
			p.Logger.Debug("catalog is empty, nothing to publish")
		} else if err := p.Publisher.Publish(ctx, events.TopicRawSupplierFeeds, event.Destination, event); err != nil {
			p.Logger.Warn("failed to publish raw price event", zap.Error(err))
		}

		delay := time.Duration(2000+p.rng.Intn(3000)) * time.Millisecond
		select {
		case <-ctx.Done():
			p.Logger.Info("supplier feed simulator stopped")
			return
		case <-time.After(delay):
		}
	}
}

// sampleEvent picks one random catalog record and prices it. A nil event
// with a nil error means the sampled collection has no records yet.
func (p *Pipeline) sampleEvent() (*models.RawPriceEvent, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	// Even split between the two record kinds.
	if p.rng.Intn(2) == 0 {
		f, err := p.Catalog.SampleFlight()
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, nil
		}
		// Flights swing between a 25% drop and a 20% surge.
		variance := 0.75 + p.rng.Float64()*0.45
		return &models.RawPriceEvent{
			Source:      "supplier_sim",
			Type:        "flight",
			Origin:      f.Origin,
			Destination: f.Destination,
			Price:       round2(f.Price * variance),
			Airline:     f.Airline,
			Avg30dPrice: f.Price,
			SeatsLeft:   f.SeatsLeft,
			Timestamp:   now,
		}, nil
	}

	l, err := p.Catalog.SampleLodging()
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}
	// Lodging prices are more volatile than airfares.
	variance := 0.70 + p.rng.Float64()*0.60
	avg := l.Avg30dPrice
	if avg <= 0 {
		avg = l.Price
	}
	return &models.RawPriceEvent{
		Source:       "supplier_sim",
		Type:         "hotel",
		Destination:  l.Area,
		Price:        round2(l.Price * variance),
		Amenities:    l.Amenities,
		Avg30dPrice:  avg,
		Availability: 1 + p.rng.Intn(9),
		Timestamp:    now,
	}, nil
}

// RunDetection consumes raw price events and republishes the ones that
// qualify as deals. A consumer error terminates the loop; the bus client
// already retries transient failures internally, so an error here means the
// stream is gone.
func (p *Pipeline) RunDetection(ctx context.Context, consumer events.Consumer) {
	p.Logger.Info("deal detector started")
	for {
		raw, err := consumer.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.Logger.Info("deal detector stopped")
			} else {
				p.Logger.Error("deal detector lost its stream", zap.Error(err))
			}
			return
		}

		var event models.RawPriceEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			p.Logger.Warn("dropping malformed price event", zap.Error(err))
			continue
		}

		deal, ok := p.Classify(event)
		if !ok {
			continue
		}
		if err := p.Publisher.Publish(ctx, events.TopicDealEvents, deal.Destination, deal); err != nil {
			p.Logger.Warn("failed to publish deal event", zap.Error(err))
			continue
		}
		p.Logger.Info("deal detected",
			zap.String("destination", deal.Destination),
			zap.Float64("price", deal.Price),
			zap.Strings("tags", deal.Tags))
	}
}

// Classify decides whether one price observation is a deal. A deal is any
// price at or below DropRatio of the 30-day average; low remaining stock
// adds a scarcity tag but never creates a deal on its own.
func (p *Pipeline) Classify(event models.RawPriceEvent) (*models.DealEvent, bool) {
	if event.Avg30dPrice <= 0 || event.Price > event.Avg30dPrice*p.DropRatio {
		return nil, false
	}

	discount := int((1 - event.Price/event.Avg30dPrice) * 100)
	tags := []string{fmt.Sprintf("%d%% OFF", discount)}

	stock := event.SeatsLeft
	if event.Type == "hotel" {
		stock = event.Availability
	}
	if stock > 0 && stock < p.LowStock {
		tags = append(tags, "Selling Fast")
	}

	details := fmt.Sprintf("%s to %s", event.Type, event.Destination)
	if event.Type == "flight" && event.Airline != "" {
		details = fmt.Sprintf("%s flight to %s", event.Airline, event.Destination)
	} else if event.Type == "hotel" {
		details = fmt.Sprintf("stay in %s", event.Destination)
	}

	return &models.DealEvent{
		Type:          "deal_found",
		Destination:   event.Destination,
		Price:         event.Price,
		OriginalPrice: event.Avg30dPrice,
		Tags:          tags,
		Details:       details,
		Timestamp:     event.Timestamp,
	}, true
}
