package service_test

import (
	"alcyxob/exercise-tracker/internal/dates"
	"alcyxob/exercise-tracker/internal/domain"
	"alcyxob/exercise-tracker/internal/repository"
	"alcyxob/exercise-tracker/internal/repository/mocks"
	"alcyxob/exercise-tracker/internal/service"
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func newExerciseService(t *testing.T) (service.ExerciseService, *mocks.MockUserRepository, *mocks.MockExerciseRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	exerciseRepo := mocks.NewMockExerciseRepository(ctrl)
	normalizer := dates.NewNormalizer(time.UTC).WithClock(func() time.Time { return testNow })
	return service.NewExerciseService(userRepo, exerciseRepo, normalizer), userRepo, exerciseRepo
}

func TestExerciseService_AddExercise(t *testing.T) {
	svc, userRepo, exerciseRepo := newExerciseService(t)

	alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
	exerciseID := primitive.NewObjectID()

	userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)
	exerciseRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
			assert.Equal(t, alice.ID, ex.UserID)
			assert.Equal(t, "run", ex.Description)
			assert.Equal(t, domain.Minutes(30), ex.Duration)
			assert.Equal(t, "2024-01-01", ex.Date)
			return exerciseID, nil
		})

	logged, err := svc.AddExercise(context.Background(), alice.ID.Hex(), service.AddExerciseInput{
		Description: "run",
		Duration:    30,
		Date:        "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, alice, logged.User)
	assert.Equal(t, exerciseID, logged.Exercise.ID)
	assert.Equal(t, "Mon Jan 01 2024", logged.DisplayDate)
}

func TestExerciseService_AddExercise_DefaultsToToday(t *testing.T) {
	svc, userRepo, exerciseRepo := newExerciseService(t)

	alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
	userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)
	exerciseRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
			assert.Equal(t, "2024-03-05", ex.Date)
			assert.True(t, ex.Duration.IsNaN())
			return primitive.NewObjectID(), nil
		})

	logged, err := svc.AddExercise(context.Background(), alice.ID.Hex(), service.AddExerciseInput{
		Description: "run",
		Duration:    domain.Minutes(math.NaN()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tue Mar 05 2024", logged.DisplayDate)
}

func TestExerciseService_AddExercise_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		svc, userRepo, _ := newExerciseService(t)
		id := primitive.NewObjectID()
		userRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, repository.ErrNotFound)

		_, err := svc.AddExercise(context.Background(), id.Hex(), service.AddExerciseInput{Description: "run"})
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc, _, _ := newExerciseService(t)

		_, err := svc.AddExercise(context.Background(), "123", service.AddExerciseInput{Description: "run"})
		assert.ErrorIs(t, err, repository.ErrInvalidID)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc, userRepo, _ := newExerciseService(t)
		alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
		userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)

		_, err := svc.AddExercise(context.Background(), alice.ID.Hex(), service.AddExerciseInput{Description: "run", Date: "someday"})
		assert.ErrorIs(t, err, dates.ErrInvalidDate)
	})

	t.Run("year out of range", func(t *testing.T) {
		svc, userRepo, exerciseRepo := newExerciseService(t)
		alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
		userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)
		exerciseRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.AddExercise(context.Background(), alice.ID.Hex(), service.AddExerciseInput{Description: "run", Date: "+010000-01-01"})
		assert.ErrorIs(t, err, dates.ErrInvalidDate)
	})

	t.Run("missing description", func(t *testing.T) {
		svc, userRepo, _ := newExerciseService(t)
		alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
		userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)

		_, err := svc.AddExercise(context.Background(), alice.ID.Hex(), service.AddExerciseInput{Duration: 10})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestExerciseService_GetLog(t *testing.T) {
	svc, userRepo, exerciseRepo := newExerciseService(t)

	alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
	limit := int64(2)

	userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)
	exerciseRepo.EXPECT().
		Find(gomock.Any(), domain.LogQuery{UserID: alice.ID, From: "2024-01-01", To: "2024-01-31", Limit: &limit}).
		Return([]domain.Exercise{
			{UserID: alice.ID, Description: "run", Duration: 30, Date: "2024-01-01"},
			{UserID: alice.ID, Description: "swim", Duration: domain.Minutes(math.NaN()), Date: "2024-01-31"},
		}, nil)

	log, err := svc.GetLog(context.Background(), alice.ID.Hex(), service.LogParams{
		From:  "2024-01-01",
		To:    "Jan 31 2024",
		Limit: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, alice, log.User)
	require.Len(t, log.Entries, 2)
	assert.Equal(t, service.LogEntry{Description: "run", Duration: 30, Date: "Mon Jan 01 2024"}, log.Entries[0])
	assert.Equal(t, "Wed Jan 31 2024", log.Entries[1].Date)
	assert.True(t, log.Entries[1].Duration.IsNaN())
}

func TestExerciseService_GetLog_Limit(t *testing.T) {
	limit := func(n int64) *int64 { return &n }

	testCases := []struct {
		name     string
		raw      string
		expected *int64
	}{
		{name: "Absent", raw: "", expected: nil},
		{name: "NotANumber", raw: "many", expected: nil},
		{name: "Numeric", raw: "3", expected: limit(3)},
		{name: "Fraction", raw: "2.9", expected: limit(2)},
		{name: "Negative", raw: "-4", expected: limit(4)},
		{name: "Infinite", raw: "Infinity", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, userRepo, exerciseRepo := newExerciseService(t)
			alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}

			userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)
			exerciseRepo.EXPECT().
				Find(gomock.Any(), domain.LogQuery{UserID: alice.ID, Limit: tc.expected}).
				Return([]domain.Exercise{}, nil)

			log, err := svc.GetLog(context.Background(), alice.ID.Hex(), service.LogParams{Limit: tc.raw})
			require.NoError(t, err)
			assert.Empty(t, log.Entries)
		})
	}
}

func TestExerciseService_GetLog_ZeroLimit(t *testing.T) {
	svc, userRepo, exerciseRepo := newExerciseService(t)
	alice := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}

	userRepo.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)
	exerciseRepo.EXPECT().Find(gomock.Any(), gomock.Any()).Times(0)

	log, err := svc.GetLog(context.Background(), alice.ID.Hex(), service.LogParams{Limit: "0"})
	require.NoError(t, err)
	assert.NotNil(t, log.Entries)
	assert.Empty(t, log.Entries)
}

func TestExerciseService_GetLog_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		svc, userRepo, _ := newExerciseService(t)
		id := primitive.NewObjectID()
		userRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, repository.ErrNotFound)

		_, err := svc.GetLog(context.Background(), id.Hex(), service.LogParams{})
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("invalid bound", func(t *testing.T) {
		svc, _, _ := newExerciseService(t)

		_, err := svc.GetLog(context.Background(), primitive.NewObjectID().Hex(), service.LogParams{From: "last week"})
		assert.ErrorIs(t, err, dates.ErrInvalidDate)
	})
}
