// internal/app/store/userstore/userstore.go
package userstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/globalclassrooms/classhub/internal/app/system/normalize"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateUser  = errors.New("a user with this email, username, or wallet already exists")
	ErrBadCredentials = errors.New("invalid credentials")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByWallet looks up a user by wallet address (stored lowercased).
func (s *Store) GetByWallet(ctx context.Context, address string) (*models.User, error) {
	return s.getOne(ctx, bson.M{"wallet_address": normalize.WalletAddress(address)})
}

// GetByGoogleID looks up a user by their verified Google account id.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.getOne(ctx, bson.M{"google_account_id": googleID})
}

// GetMany loads the users for a set of ids in one query. Missing ids are
// silently absent from the result.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) getOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing identity fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.WalletAddress = normalize.WalletAddress(u.WalletAddress)
	u.FirstName = normalize.Name(u.FirstName)
	u.LastName = normalize.Name(u.LastName)
	u.FullNameCI = text.Fold(normalize.Name(u.FirstName + " " + u.LastName))
	if u.Username == "" {
		u.Username = defaultUsername(u)
	}
	u.IsActive = true

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// defaultUsername derives a username for signups that don't supply one
// (wallet and OTP logins).
func defaultUsername(u models.User) string {
	switch {
	case u.Email != "":
		return u.Email
	case u.WalletAddress != "":
		return u.WalletAddress
	default:
		return u.ID.Hex()
	}
}

// SetPassword stores a bcrypt hash of the new password.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (s *Store) CheckPassword(u *models.User, password string) error {
	if u.PasswordHash == "" {
		return ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return ErrBadCredentials
	}
	return nil
}

// ProfileUpdate holds the self-service editable fields.
type ProfileUpdate struct {
	FirstName    string
	LastName     string
	MobileNumber string
	Gender       string
	DateOfBirth  *time.Time
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// UpdateProfile applies a profile update and bumps updated_at.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, up ProfileUpdate) error {
	first := normalize.Name(up.FirstName)
	last := normalize.Name(up.LastName)
	set := bson.M{
		"first_name":     first,
		"last_name":      last,
		"full_name_ci":   text.Fold(normalize.Name(first + " " + last)),
		"mobile_number":  up.MobileNumber,
		"gender":         up.Gender,
		"address_line_1": up.AddressLine1,
		"address_line_2": up.AddressLine2,
		"city":           up.City,
		"state":          up.State,
		"postal_code":    up.PostalCode,
		"country":        up.Country,
		"updated_at":     time.Now().UTC(),
	}
	if up.DateOfBirth != nil {
		set["date_of_birth"] = *up.DateOfBirth
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkGoogleAccount records the Google account id for an existing user so
// later Google logins resolve directly.
func (s *Store) LinkGoogleAccount(ctx context.Context, id primitive.ObjectID, googleID string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"google_account_id": googleID,
		"updated_at":        time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRole changes the user's platform role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive flips the account's soft-delete flag.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Query string // matched against the folded full name prefix
	Role  string
}

// List returns a page of users plus the total count for the filter.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.User, int64, error) {
	filter := bson.M{"is_active": true}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if q := normalize.Query(f.Query); q != "" {
		filter["full_name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(q))}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	page.ApplyToFind(find)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountActive returns the number of active accounts.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_active": true})
}
