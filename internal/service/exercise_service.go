package service

import (
	"alcyxob/exercise-tracker/internal/dates"
	"alcyxob/exercise-tracker/internal/domain"
	"alcyxob/exercise-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"math"
)

// --- Error Definitions ---
var (
	// ErrUserNotFound is returned when an exercise route names an unknown user.
	ErrUserNotFound = errors.New("user not found")
)

// AddExerciseInput is the already coerced body of an exercise request.
type AddExerciseInput struct {
	Description string
	Duration    domain.Minutes
	// Date is the raw client date; empty means today.
	Date string
}

// LogParams are the raw query parameters of a log request.
type LogParams struct {
	From  string
	To    string
	Limit string
}

// LoggedExercise is a stored exercise together with its owner.
type LoggedExercise struct {
	User        *domain.User
	Exercise    *domain.Exercise
	DisplayDate string
}

// LogEntry is one exercise of a log, with the date in display form.
type LogEntry struct {
	Description string
	Duration    domain.Minutes
	Date        string
}

// ExerciseLog is the filtered list of exercises of a user.
type ExerciseLog struct {
	User    *domain.User
	Entries []LogEntry
}

// ExerciseService logs exercises and reads them back.
type ExerciseService interface {
	AddExercise(ctx context.Context, userID string, in AddExerciseInput) (*LoggedExercise, error)
	GetLog(ctx context.Context, userID string, params LogParams) (*ExerciseLog, error)
}

type exerciseService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	dates        *dates.Normalizer
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(userRepo repository.UserRepository, exerciseRepo repository.ExerciseRepository, normalizer *dates.Normalizer) ExerciseService {
	return &exerciseService{
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		dates:        normalizer,
	}
}

func (s *exerciseService) AddExercise(ctx context.Context, userID string, in AddExerciseInput) (*LoggedExercise, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	date, err := s.dates.ForStorage(in.Date)
	if err != nil {
		return nil, fmt.Errorf("exercise date: %w", err)
	}

	exercise, err := domain.NewExercise(user.ID, in.Description, in.Duration, date)
	if err != nil {
		return nil, err
	}

	display, err := s.dates.ForDisplay(exercise.Date)
	if err != nil {
		return nil, fmt.Errorf("exercise date: %w", err)
	}

	// Nothing prevents the user from vanishing between the lookup and this
	// insert; the store keeps no referential integrity.
	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	exercise.ID = id

	return &LoggedExercise{User: user, Exercise: exercise, DisplayDate: display}, nil
}

func (s *exerciseService) GetLog(ctx context.Context, userID string, params LogParams) (*ExerciseLog, error) {
	from, to, err := s.bounds(params)
	if err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := domain.LogQuery{UserID: user.ID, From: from, To: to}
	if limit, ok := parseLimit(params.Limit); ok {
		if limit == 0 {
			return &ExerciseLog{User: user, Entries: []LogEntry{}}, nil
		}
		q.Limit = &limit
	}

	exercises, err := s.exerciseRepo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}

	entries := make([]LogEntry, 0, len(exercises))
	for _, ex := range exercises {
		display, err := s.dates.ForDisplay(ex.Date)
		if err != nil {
			return nil, fmt.Errorf("exercise %s: %w", ex.ID.Hex(), err)
		}
		entries = append(entries, LogEntry{
			Description: ex.Description,
			Duration:    ex.Duration,
			Date:        display,
		})
	}

	return &ExerciseLog{User: user, Entries: entries}, nil
}

func (s *exerciseService) bounds(params LogParams) (from, to string, err error) {
	if params.From != "" {
		if from, err = s.dates.Bound(params.From); err != nil {
			return "", "", fmt.Errorf("from: %w", err)
		}
	}
	if params.To != "" {
		if to, err = s.dates.Bound(params.To); err != nil {
			return "", "", fmt.Errorf("to: %w", err)
		}
	}
	return from, to, nil
}

func (s *exerciseService) findUser(ctx context.Context, hex string) (*domain.User, error) {
	id, err := repository.ParseID(hex)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", hex, err)
	}
	return user, nil
}

// parseLimit reads the limit query parameter. ok is false when there is no
// cap: the parameter is missing, empty or not a finite number. Fractions are
// truncated and negative values cap at their absolute value.
func parseLimit(raw string) (limit int64, ok bool) {
	if raw == "" {
		return 0, false
	}
	n := domain.ToNumber(raw, true)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	n = math.Abs(math.Trunc(n))
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}
