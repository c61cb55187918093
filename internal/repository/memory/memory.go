// Package memory is a thread-safe in-memory implementation of the
// repository interfaces. It backs local runs without MongoDB
// (database.driver: memory) and the HTTP tests.
package memory

import (
	"alcyxob/exercise-tracker/internal/domain"
	"alcyxob/exercise-tracker/internal/repository"
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds users and exercises in insertion order.
type Store struct {
	mu        sync.RWMutex
	users     []domain.User
	usernames map[string]int
	ids       map[primitive.ObjectID]int
	exercises []domain.Exercise
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		usernames: make(map[string]int),
		ids:       make(map[primitive.ObjectID]int),
	}
}

// Users returns a repository.UserRepository view of the store.
func (s *Store) Users() repository.UserRepository {
	return userRepo{s}
}

// Exercises returns a repository.ExerciseRepository view of the store.
func (s *Store) Exercises() repository.ExerciseRepository {
	return exerciseRepo{s}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Username == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.usernames[user.Username]; exists {
		return primitive.NilObjectID, fmt.Errorf("%w: username %q", repository.ErrDuplicateKey, user.Username)
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()

	r.s.users = append(r.s.users, *user)
	r.s.usernames[user.Username] = len(r.s.users) - 1
	r.s.ids[user.ID] = len(r.s.users) - 1
	return user.ID, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.usernames[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := r.s.users[i]
	return &user, nil
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.ids[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := r.s.users[i]
	return &user, nil
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]domain.User, len(r.s.users))
	copy(users, r.s.users)
	return users, nil
}

type exerciseRepo struct{ s *Store }

func (r exerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.UserID == primitive.NilObjectID || exercise.Description == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: exercise userId and description are required", domain.ErrValidation)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()
	r.s.exercises = append(r.s.exercises, *exercise)
	return exercise.ID, nil
}

func (r exerciseRepo) Find(_ context.Context, q domain.LogQuery) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	limit := int64(-1)
	if q.Limit != nil && *q.Limit != 0 {
		// Same as the store: a negative limit caps at its absolute value.
		limit = *q.Limit
		if limit < 0 {
			limit = -limit
		}
	}

	exercises := []domain.Exercise{}
	for _, ex := range r.s.exercises {
		if limit >= 0 && int64(len(exercises)) >= limit {
			break
		}
		if ex.UserID != q.UserID {
			continue
		}
		if q.From != "" && ex.Date < q.From {
			continue
		}
		if q.To != "" && ex.Date > q.To {
			continue
		}
		exercises = append(exercises, ex)
	}
	return exercises, nil
}
