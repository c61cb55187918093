package mongo

import (
	"alcyxob/exercise-tracker/internal/domain"
	"alcyxob/exercise-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.UserID == primitive.NilObjectID || exercise.Description == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: exercise userId and description are required", domain.ErrValidation)
	}

	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// Find retrieves the exercises of a user, optionally bounded by date and
// capped by limit.
func (r *mongoExerciseRepository) Find(ctx context.Context, q domain.LogQuery) ([]domain.Exercise, error) {
	filter := logFilter(q)

	// Natural insertion order; ObjectIDs grow monotonically.
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if q.Limit != nil {
		findOptions.SetLimit(*q.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}

	return exercises, nil
}

// logFilter builds the query document. Stored dates are canonical
// yyyy-MM-dd strings so $gte/$lte compare them in calendar order.
func logFilter(q domain.LogQuery) bson.M {
	filter := bson.M{"userId": q.UserID}

	dateRange := bson.M{}
	if q.From != "" {
		dateRange["$gte"] = q.From
	}
	if q.To != "" {
		dateRange["$lte"] = q.To
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	return filter
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Log lookups filter by owner and date range.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for collection %s: %w", collection.Name(), err)
	}
	return nil
}
