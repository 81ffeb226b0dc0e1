package catalogRepo

import (
	"context"

	"bookery/models"
)

// CatalogRepository reads booking configuration: locations, providers and
// services. The engine never writes through it; mutations happen in the
// surrounding CRUD layer. Implementations return only active records, so
// soft-delete filtering stays at the query boundary.
type CatalogRepository interface {
	GetLocation(ctx context.Context, id string) (*models.Location, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	// ListProviders returns the active providers assigned to the location
	// that carry the service.
	ListProviders(ctx context.Context, locationID, serviceID string) ([]models.Provider, error)
}

// ErrNotFound is returned when a referenced record does not exist or is
// inactive.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return e.Kind + " " + e.ID + " not found"
}
