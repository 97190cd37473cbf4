package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courseapp/internal/model"
	"courseapp/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type studentDoc struct {
	ID           string    `bson:"_id"`
	StudentID    string    `bson:"studentId"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d studentDoc) model() *model.Student {
	return &model.Student{
		ID:           d.ID,
		StudentID:    d.StudentID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type studentRepo struct {
	coll *mongo.Collection
}

func (r *studentRepo) CreateStudent(ctx context.Context, s *model.Student) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := studentDoc{
		ID:           newID(),
		StudentID:    s.StudentID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		switch {
		case duplicateKeyOn(err, studentEmailIndex):
			return repository.ErrDuplicateEmail
		case mongo.IsDuplicateKeyError(err):
			return repository.ErrDuplicateStudentID
		}
		return fmt.Errorf("inserting student: %w", err)
	}
	s.ID = doc.ID
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (r *studentRepo) getOne(ctx context.Context, field, value string) (*model.Student, error) {
	var doc studentDoc
	err := r.coll.FindOne(ctx, bson.M{field: value}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding student by %s: %w", field, err)
	}
	return doc.model(), nil
}

func (r *studentRepo) GetStudentByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	return r.getOne(ctx, "studentId", studentID)
}

func (r *studentRepo) GetStudentByEmail(ctx context.Context, email string) (*model.Student, error) {
	return r.getOne(ctx, "email", email)
}

func (r *studentRepo) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"studentId": studentID})
	if err != nil {
		return false, fmt.Errorf("checking student id %s: %w", studentID, err)
	}
	return n > 0, nil
}
