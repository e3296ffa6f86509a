package services

import (
	"context"
	"fmt"
	"time"

	"galleryshare/models"
	"galleryshare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// AuthService manages the single admin account: first-run setup, password
// login and bearer token issuance.
type AuthService struct {
	adminCollection *mongo.Collection
	jwtSecret       string
	jwtExpiration   time.Duration
	jwtIssuer       string
}

func NewAuthService(db *mongo.Database, jwtSecret string, jwtExpiration time.Duration, jwtIssuer string) *AuthService {
	return &AuthService{
		adminCollection: db.Collection("admins"),
		jwtSecret:       jwtSecret,
		jwtExpiration:   jwtExpiration,
		jwtIssuer:       jwtIssuer,
	}
}

// SetupComplete reports whether an admin account exists yet.
func (s *AuthService) SetupComplete(ctx context.Context) (bool, error) {
	count, err := s.adminCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	return count > 0, nil
}

// SetupAdmin creates the admin account. Valid exactly once; a second call
// conflicts no matter which username it carries.
func (s *AuthService) SetupAdmin(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	exists, err := s.SetupComplete(ctx)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: admin account already exists", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.adminCollection.InsertOne(ctx, admin); err != nil {
		return "", fmt.Errorf("failed to create admin: %w", err)
	}

	return utils.GenerateToken(username, s.jwtSecret, s.jwtIssuer, s.jwtExpiration)
}

// Login verifies credentials and issues a bearer token. Bad username and bad
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	var admin models.Admin
	err := s.adminCollection.FindOne(ctx, bson.M{"username": username}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	} else if err != nil {
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	return utils.GenerateToken(username, s.jwtSecret, s.jwtIssuer, s.jwtExpiration)
}

// VerifyAdmin checks that the token subject still matches a stored admin.
func (s *AuthService) VerifyAdmin(ctx context.Context, username string) error {
	count, err := s.adminCollection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: unknown admin", ErrUnauthorized)
	}
	return nil
}
