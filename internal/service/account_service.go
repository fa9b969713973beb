package service

import (
	"context"
	"errors"
	"fmt"

	"user_accounts/internal/model"
	"user_accounts/internal/repository"
	"user_accounts/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmailInUse         = errors.New("email in use")
	ErrInvalidCredentials = errors.New("authentication failed")
	ErrUnauthorized       = errors.New("user not authorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidID          = errors.New("invalid user id")
	ErrInvalidUpdate      = errors.New("no updatable fields in request")
)

// UpdateUserRequest carries the allow-listed fields a client may change
type UpdateUserRequest struct {
	Email        *string `json:"email"`
	Subscription *string `json:"subscription"`
}

// AccountService provides account and session related operations
type AccountService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Authorize(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	GetByID(ctx context.Context, idHex string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.PublicUser, error)
	UpdateUser(ctx context.Context, idHex string, req UpdateUserRequest) (*model.User, error)
}

type accountService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAccountService creates a new AccountService
func NewAccountService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AccountService {
	return &accountService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Register creates a new user account with the default subscription tier
func (s *accountService) Register(ctx context.Context, email, password string) (*model.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Subscription: model.SubscriptionStarter,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index catches the race the existence check above can miss
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return user, nil
}

// Login authenticates a user, issues a session token and persists it.
// Issuing a new token invalidates any previous one by overwrite.
func (s *accountService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.userRepo.SetToken(ctx, user.ID, &token); err != nil {
		return nil, "", fmt.Errorf("failed to persist token: %w", err)
	}
	user.Token = &token

	return user, token, nil
}

// Authorize verifies a bearer token and resolves it to the user it belongs to.
// A token that fails verification, names an unknown user, or no longer matches
// the stored one is rejected with ErrUnauthorized.
func (s *accountService) Authorize(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil || user.Token == nil || *user.Token != token {
		// Stale token: logged out or superseded by a newer login
		return nil, ErrUnauthorized
	}

	return user, nil
}

// Logout clears the stored session token. Idempotent.
func (s *accountService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.userRepo.SetToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// GetByID validates the id format, then loads the user
func (s *accountService) GetByID(ctx context.Context, idHex string) (*model.User, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrInvalidID
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns the public projection of every user
func (s *accountService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

// UpdateUser merges the allow-listed fields into the record and returns the result
func (s *accountService) UpdateUser(ctx context.Context, idHex string, req UpdateUserRequest) (*model.User, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrInvalidID
	}

	fields := bson.M{}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Subscription != nil {
		if !model.ValidSubscription(*req.Subscription) {
			return nil, fmt.Errorf("%w: unknown subscription %q", ErrInvalidUpdate, *req.Subscription)
		}
		fields["subscription"] = *req.Subscription
	}
	if len(fields) == 0 {
		return nil, ErrInvalidUpdate
	}

	user, err := s.userRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
