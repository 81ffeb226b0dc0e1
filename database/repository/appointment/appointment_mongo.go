package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookery/database"
	catalogRepo "bookery/database/repository/catalog"
	"bookery/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new instance of MongoAppointmentRepo.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &MongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
}

func activeFilter(extra bson.M) bson.M {
	filter := bson.M{"deleted": false}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

func (repo *MongoAppointmentRepo) ListForProvider(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := activeFilter(bson.M{
		"provider_id": providerID,
		"start":       bson.M{"$lt": to},
		"end":         bson.M{"$gt": from},
	})
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	for cursor.Next(ctx) {
		var a models.Appointment
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("error decoding appointment: %w", err)
		}
		appts = append(appts, a)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) CountStartingIn(ctx context.Context, providerID string, from, to time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := activeFilter(bson.M{
		"provider_id": providerID,
		"start":       bson.M{"$gte": from, "$lt": to},
	})
	n, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting appointments: %w", err)
	}
	return int(n), nil
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a models.Appointment
	if err := repo.coll.FindOne(ctx, activeFilter(bson.M{"id": id})).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &catalogRepo.ErrNotFound{Kind: "appointment", ID: id}
		}
		return nil, fmt.Errorf("error fetching appointment with id %s: %w", id, err)
	}
	return &a, nil
}

// Insert persists the appointment inside a session transaction so the write
// is atomic with respect to any other store mutation it may grow to include.
func (repo *MongoAppointmentRepo) Insert(ctx context.Context, appt *models.Appointment) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if _, err := repo.coll.InsertOne(sc, appt); err != nil {
			_ = sc.AbortTransaction(sc)
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("appointment transaction failed: %w", err)
	}
	return nil
}

func (repo *MongoAppointmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, activeFilter(bson.M{"id": id}), update)
	if err != nil {
		return fmt.Errorf("error updating appointment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return &catalogRepo.ErrNotFound{Kind: "appointment", ID: id}
	}
	return nil
}

func (repo *MongoAppointmentRepo) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"deleted":    true,
		"status":     models.StatusCancelled,
		"updated_at": time.Now(),
	}}
	res, err := repo.coll.UpdateOne(ctx, activeFilter(bson.M{"id": id}), update)
	if err != nil {
		return fmt.Errorf("error soft-deleting appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return &catalogRepo.ErrNotFound{Kind: "appointment", ID: id}
	}
	return nil
}

func (repo *MongoAppointmentRepo) ExpirePending(ctx context.Context, createdBefore time.Time) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := activeFilter(bson.M{
		"status":     models.StatusPending,
		"created_at": bson.M{"$lt": createdBefore},
	})

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, fmt.Errorf("error finding stale pending appointments: %w", err)
	}
	var docs []struct {
		ID string `bson:"id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding stale pending appointments: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	update := bson.M{"$set": bson.M{
		"deleted":    true,
		"status":     models.StatusCancelled,
		"updated_at": time.Now(),
	}}
	if _, err := repo.coll.UpdateMany(ctx, filter, update); err != nil {
		return nil, fmt.Errorf("error expiring pending appointments: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
