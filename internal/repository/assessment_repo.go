package repository

import (
	"context"
	"fmt"
	"lawhealth/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assessmentsCollection = "lhc_assessments"

// AssessmentRepo stores immutable assessment records
type AssessmentRepo interface {
	Create(ctx context.Context, a *model.Assessment) error
	GetByID(ctx context.Context, id, subjectID string) (*model.Assessment, error)
	History(ctx context.Context, subjectID string, limit int) ([]*model.Assessment, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a MongoDB-backed assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection(assessmentsCollection),
	}
}

// EnsureIndexes creates the index history queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) (string, error) {
	return db.Collection(assessmentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subjectId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("subject_created"),
	})
}

func (r *assessmentRepo) Create(ctx context.Context, a *model.Assessment) error {
	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

// GetByID returns nil, nil when the assessment does not exist or belongs to
// another subject.
func (r *assessmentRepo) GetByID(ctx context.Context, id, subjectID string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "subjectId": subjectID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find assessment %s: %w", id, err)
	}
	return &a, nil
}

func (r *assessmentRepo) History(ctx context.Context, subjectID string, limit int) ([]*model.Assessment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"subjectId": subjectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find history for %s: %w", subjectID, err)
	}
	defer cursor.Close(ctx)

	var assessments []*model.Assessment
	if err := cursor.All(ctx, &assessments); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", subjectID, err)
	}
	return assessments, nil
}
