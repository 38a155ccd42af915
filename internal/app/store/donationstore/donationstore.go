// internal/app/store/donationstore/donationstore.go
package donationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/app/system/normalize"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var (
	ErrNotFound      = errors.New("donation not found")
	ErrBadTransition = errors.New("invalid payment status transition")
)

// Payment status transitions. Completed donations can only be refunded.
var transitions = map[string][]string{
	models.PaymentPending:   {models.PaymentCompleted, models.PaymentFailed},
	models.PaymentCompleted: {models.PaymentRefunded},
	models.PaymentFailed:    {},
	models.PaymentRefunded:  {},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// Create inserts a pending donation. Donations have no owning user, so
// anonymous visitors can create them.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	d.ID = primitive.NewObjectID()
	d.DonorEmail = normalize.Email(d.DonorEmail)
	d.PaymentStatus = models.PaymentPending
	d.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Donation{}, fmt.Errorf("insert donation: %w", err)
	}
	return d, nil
}

// GetByID loads a donation.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Transition moves a donation through the payment lifecycle, recording the
// payment id and the processing time on completion. The current status is
// part of the filter so a double webhook cannot apply twice.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, to, paymentID string) error {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, next := range transitions[d.PaymentStatus] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, d.PaymentStatus, to)
	}

	set := bson.M{"payment_status": to}
	if paymentID != "" {
		set["payment_id"] = paymentID
	}
	if to == models.PaymentCompleted {
		set["processed_at"] = time.Now().UTC()
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "payment_status": d.PaymentStatus},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: status changed concurrently", ErrBadTransition)
	}
	return nil
}

// ListCompleted pages through completed donations, newest first. This is
// the public listing; pending and failed donations are staff-only.
func (s *Store) ListCompleted(ctx context.Context, page paging.Page) ([]models.Donation, int64, error) {
	return s.list(ctx, bson.M{"payment_status": models.PaymentCompleted}, page)
}

// ListAll pages through every donation regardless of status.
func (s *Store) ListAll(ctx context.Context, status string, page paging.Page) ([]models.Donation, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["payment_status"] = status
	}
	return s.list(ctx, filter, page)
}

// ListByEmail returns a donor's own donations.
func (s *Store) ListByEmail(ctx context.Context, email string, page paging.Page) ([]models.Donation, int64, error) {
	return s.list(ctx, bson.M{"donor_email": normalize.Email(email)}, page)
}

func (s *Store) list(ctx context.Context, filter bson.M, page paging.Page) ([]models.Donation, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	page.ApplyToFind(find)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Donation
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Stats summarizes completed donations.
type Stats struct {
	TotalAmount float64 `bson:"total_amount" json:"total_amount"`
	Count       int64   `bson:"count" json:"count"`
	Average     float64 `bson:"average" json:"average"`
}

// CompletedStats aggregates the amount, count, and average of completed
// donations.
func (s *Store) CompletedStats(ctx context.Context) (Stats, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": models.PaymentCompleted}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"total_amount": bson.M{"$sum": "$amount"},
			"count":        bson.M{"$sum": 1},
			"average":      bson.M{"$avg": "$amount"},
		}}},
	})
	if err != nil {
		return Stats{}, err
	}
	defer cur.Close(ctx)

	var rows []Stats
	if err := cur.All(ctx, &rows); err != nil {
		return Stats{}, err
	}
	if len(rows) == 0 {
		return Stats{}, nil
	}
	return rows[0], nil
}
