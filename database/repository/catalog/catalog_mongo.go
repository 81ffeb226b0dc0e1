package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookery/database"
	"bookery/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	locationColl *mongo.Collection
	providerColl *mongo.Collection
	serviceColl  *mongo.Collection
}

// NewMongoCatalogRepo constructs a new instance of MongoCatalogRepo.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &MongoCatalogRepo{
		locationColl: db.Collection("locations"),
		providerColl: db.Collection("providers"),
		serviceColl:  db.Collection("services"),
	}
}

// serviceDoc is the stored shape of a service. Older documents carry symbolic
// duration keys instead of integer minutes; decode normalizes them so the
// engine never sees the symbolic encoding.
type serviceDoc struct {
	models.Service `bson:",inline"`
	DurationKey    string `bson:"duration_key,omitempty"`
	SlotKey        string `bson:"slot_key,omitempty"`
}

func (d *serviceDoc) normalized() *models.Service {
	svc := d.Service
	if svc.DurationMinutes == 0 && d.DurationKey != "" {
		svc.DurationMinutes = NormalizeDuration(d.DurationKey)
	}
	if svc.SlotMinutes == 0 && d.SlotKey != "" && d.SlotKey != "default" {
		svc.SlotMinutes = NormalizeDuration(d.SlotKey)
	}
	return &svc
}

func (repo *MongoCatalogRepo) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var loc models.Location
	filter := bson.M{"id": id, "active": true}
	if err := repo.locationColl.FindOne(ctx, filter).Decode(&loc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Kind: "location", ID: id}
		}
		return nil, fmt.Errorf("error fetching location with id %s: %w", id, err)
	}
	return &loc, nil
}

func (repo *MongoCatalogRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc serviceDoc
	filter := bson.M{"id": id, "active": true}
	if err := repo.serviceColl.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Kind: "service", ID: id}
		}
		return nil, fmt.Errorf("error fetching service with id %s: %w", id, err)
	}
	return doc.normalized(), nil
}

func (repo *MongoCatalogRepo) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	filter := bson.M{"id": id, "active": true}
	if err := repo.providerColl.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Kind: "provider", ID: id}
		}
		return nil, fmt.Errorf("error fetching provider with id %s: %w", id, err)
	}
	return &p, nil
}

// ListProviders returns active providers assigned to the location that carry
// the service, in stored order.
func (repo *MongoCatalogRepo) ListProviders(ctx context.Context, locationID, serviceID string) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"active":       true,
		"location_ids": locationID,
		"services": bson.M{
			"$elemMatch": bson.M{"service_id": serviceID},
		},
	}
	cursor, err := repo.providerColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	for cursor.Next(ctx) {
		var p models.Provider
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("error decoding provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return providers, nil
}
