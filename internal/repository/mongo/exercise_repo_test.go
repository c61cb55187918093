package mongo

import (
	"alcyxob/exercise-tracker/internal/domain"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoExerciseRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		ex := &domain.Exercise{
			UserID:      primitive.NewObjectID(),
			Description: "run",
			Duration:    domain.Minutes(math.NaN()),
			Date:        "2024-01-01",
		}
		id, err := repo.Create(context.Background(), ex)
		require.NoError(mt, err)
		assert.Equal(mt, id, ex.ID)
		assert.False(mt, ex.CreatedAt.IsZero())
	})

	mt.Run("create requires description", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)

		_, err := repo.Create(context.Background(), &domain.Exercise{UserID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, domain.ErrValidation)
	})

	mt.Run("find decodes records", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		userID := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + exerciseCollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: userID},
				{Key: "description", Value: "run"},
				{Key: "duration", Value: 30.0},
				{Key: "date", Value: "2024-01-01"},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: userID},
				{Key: "description", Value: "swim"},
				{Key: "duration", Value: math.NaN()},
				{Key: "date", Value: "2024-01-02"},
			},
		))

		limit := int64(5)
		exercises, err := repo.Find(context.Background(), domain.LogQuery{UserID: userID, From: "2024-01-01", Limit: &limit})
		require.NoError(mt, err)
		require.Len(mt, exercises, 2)
		assert.Equal(mt, "run", exercises[0].Description)
		assert.Equal(mt, domain.Minutes(30), exercises[0].Duration)
		assert.True(mt, exercises[1].Duration.IsNaN())
		assert.Equal(mt, "2024-01-02", exercises[1].Date)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		assert.Equal(mt, userID, started.Command.Lookup("filter", "userId").ObjectID())
		assert.Equal(mt, "2024-01-01", started.Command.Lookup("filter", "date", "$gte").StringValue())
	})
}

func TestLogFilter(t *testing.T) {
	userID := primitive.NewObjectID()

	testCases := []struct {
		name     string
		query    domain.LogQuery
		expected bson.M
	}{
		{
			name:     "NoBounds",
			query:    domain.LogQuery{UserID: userID},
			expected: bson.M{"userId": userID},
		},
		{
			name:     "FromOnly",
			query:    domain.LogQuery{UserID: userID, From: "2024-01-01"},
			expected: bson.M{"userId": userID, "date": bson.M{"$gte": "2024-01-01"}},
		},
		{
			name:     "ToOnly",
			query:    domain.LogQuery{UserID: userID, To: "2024-02-01"},
			expected: bson.M{"userId": userID, "date": bson.M{"$lte": "2024-02-01"}},
		},
		{
			name:  "BothBounds",
			query: domain.LogQuery{UserID: userID, From: "2024-01-01", To: "2024-02-01"},
			expected: bson.M{"userId": userID, "date": bson.M{
				"$gte": "2024-01-01",
				"$lte": "2024-02-01",
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, logFilter(tc.query))
		})
	}
}
