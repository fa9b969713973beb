package repository

import (
	"context"
	"sync"

	"user_accounts/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository is an in-memory UserRepository used in tests and local runs
// without a database. Safe for concurrent use.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]model.User
}

// NewMemoryUserRepository creates an empty in-memory repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]model.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

func (r *MemoryUserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "email":
			if s, ok := v.(string); ok {
				u.Email = s
			}
		case "subscription":
			if s, ok := v.(string); ok {
				u.Subscription = s
			}
		case "password_hash":
			if s, ok := v.(string); ok {
				u.PasswordHash = s
			}
		case "token":
			if v == nil {
				u.Token = nil
			} else if p, ok := v.(*string); ok {
				u.Token = p
			}
		}
	}
	r.users[id] = u
	copied := u
	return &copied, nil
}

func (r *MemoryUserRepository) SetToken(ctx context.Context, id primitive.ObjectID, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil // same as an UpdateOne matching nothing
	}
	u.Token = token
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}
