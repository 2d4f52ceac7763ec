package watchRepo

import "voyago/models"

// WatchRepository manages price watch records.
type WatchRepository interface {
	Create(watch models.Watch) error

	// ListByUser returns all watches registered by a user, newest first.
	ListByUser(userID string) ([]models.Watch, error)

	// FindMatching returns active watches for the destination whose target
	// price is at or above the observed price.
	FindMatching(destination string, price float64) ([]models.Watch, error)

	// Deactivate flips a watch inactive. Watches are never hard-deleted.
	Deactivate(id string) error

	CountActive() (int64, error)
}
