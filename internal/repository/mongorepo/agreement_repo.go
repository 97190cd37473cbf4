package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courseapp/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type agreementDoc struct {
	StudentID string    `bson:"studentId"`
	CourseID  string    `bson:"courseId"`
	Accepted  bool      `bson:"accepted"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d agreementDoc) model() *model.Agreement {
	return &model.Agreement{
		StudentID: d.StudentID,
		CourseID:  d.CourseID,
		Accepted:  d.Accepted,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type agreementRepo struct {
	coll *mongo.Collection
}

func (r *agreementRepo) Accept(ctx context.Context, studentID, courseID string) (*model.Agreement, error) {
	filter := bson.M{"studentId": studentID, "courseId": courseID}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc agreementDoc
	var err error
	// two concurrent upserts can both miss and race on the unique index; the loser retries as an update
	for attempt := 0; attempt < 2; attempt++ {
		now := time.Now().UTC().Truncate(time.Millisecond)
		update := bson.M{
			"$set":         bson.M{"accepted": true, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		}
		err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
		if !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("accepting agreement for student %s course %s: %w", studentID, courseID, err)
	}
	return doc.model(), nil
}

func (r *agreementRepo) GetAgreement(ctx context.Context, studentID, courseID string) (*model.Agreement, error) {
	var doc agreementDoc
	err := r.coll.FindOne(ctx, bson.M{"studentId": studentID, "courseId": courseID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding agreement for student %s course %s: %w", studentID, courseID, err)
	}
	return doc.model(), nil
}
