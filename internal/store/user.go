// Package store provides database access methods for all blog entities.
// Each store struct wraps a *mongo.Collection and exposes typed query
// methods. Stores return (nil, nil) for missing documents and typed
// apperror values for domain-rule violations; handlers translate both
// into HTTP responses.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"inkpress/internal/apperror"
	"inkpress/internal/database"
	"inkpress/internal/models"
)

// UserStore handles all user-related database operations, including
// password hashing and verification.
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore creates a new UserStore on the given database.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(database.UsersCollection)}
}

// Create inserts a new user with a bcrypt-hashed password. The email is
// lowercased before storage; a collision with an existing email returns
// apperror.ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Avatar:       models.DefaultAvatar,
		Role:         models.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Duplicate("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// FindByEmail retrieves a user by email, including the password hash so
// the caller can verify credentials. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := s.col.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by ID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u := &models.User{}
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByIDs returns the users for the given IDs keyed by ID. Used for
// response shaping when posts and comments reference authors.
func (s *UserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	byID := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users by ids: %w", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// ProfilePatch carries the optional fields of a profile update. Only
// non-nil fields are written.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Bio      *string
	Avatar   *string
	Password *string
}

// UpdateProfile applies a partial update to a user. The password is
// re-hashed only when the patch actually carries one, so unrelated profile
// edits never touch the stored hash. Returns the updated user, or nil if
// the user no longer exists.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch ProfilePatch) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.Avatar != nil {
		set["avatar"] = *patch.Avatar
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		set["password"] = string(hash)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	u := &models.User{}
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Duplicate("email already registered")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// TouchLastLogin records a successful login timestamp.
func (s *UserStore) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"lastLogin": time.Now()}})
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user during 2FA setup.
func (s *UserStore) SetTOTPSecret(ctx context.Context, id primitive.ObjectID, secret string) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"totpSecret": secret,
		"updatedAt":  time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user after code verification.
func (s *UserStore) EnableTOTP(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"totpEnabled": true,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
