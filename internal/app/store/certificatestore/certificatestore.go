// internal/app/store/certificatestore/certificatestore.go
package certificatestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var ErrNotFound = errors.New("certificate not found")

const defaultBackground = "#15803d"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("certificates")}
}

// Issue awards a certificate. The verification code is a fresh UUID anyone
// can later use to confirm authenticity.
func (s *Store) Issue(ctx context.Context, cert models.Certificate) (models.Certificate, error) {
	cert.ID = primitive.NewObjectID()
	cert.VerificationCode = uuid.NewString()
	cert.IssuedAt = time.Now().UTC()
	if cert.BackgroundColor == "" {
		cert.BackgroundColor = defaultBackground
	}

	if _, err := s.c.InsertOne(ctx, cert); err != nil {
		return models.Certificate{}, fmt.Errorf("insert certificate: %w", err)
	}
	return cert, nil
}

// GetByID loads a certificate.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Certificate, error) {
	var cert models.Certificate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cert); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// GetByCode resolves a verification code. Used by the public verification
// endpoint, so it leaks nothing beyond the certificate itself.
func (s *Store) GetByCode(ctx context.Context, code string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := s.c.FindOne(ctx, bson.M{"verification_code": code}).Decode(&cert); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// ListByRecipient pages through a user's certificates, newest first.
func (s *Store) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, page paging.Page) ([]models.Certificate, int64, error) {
	return s.list(ctx, bson.M{"recipient_id": recipientID}, page)
}

// ListByIssuer pages through certificates issued by a user.
func (s *Store) ListByIssuer(ctx context.Context, issuerID primitive.ObjectID, page paging.Page) ([]models.Certificate, int64, error) {
	return s.list(ctx, bson.M{"issued_by": issuerID}, page)
}

func (s *Store) list(ctx context.Context, filter bson.M, page paging.Page) ([]models.Certificate, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "issued_at", Value: -1}, {Key: "_id", Value: 1}})
	page.ApplyToFind(find)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Certificate
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Revoke deletes a certificate. Issuer or staff only; enforced upstream.
func (s *Store) Revoke(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
