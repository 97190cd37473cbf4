// Package mongorepo implements the repository interfaces on MongoDB.
// Admission needs multi-document transactions, so the server must run as a replica set.
package mongorepo

import (
	"context"
	"fmt"
	"strings"

	"courseapp/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	coursesCollection       = "courses"
	studentsCollection      = "students"
	registrationsCollection = "registrations"
	agreementsCollection    = "agreements"

	studentIDIndex        = "students_student_id_idx"
	studentEmailIndex     = "students_email_idx"
	registrationPairIndex = "registrations_student_course_idx"
	agreementPairIndex    = "agreements_student_course_idx"
)

// Store owns the client and the database handle
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client and verifies the server is reachable
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes creates the unique indexes the repositories rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		studentsCollection: {
			{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: options.Index().SetName(studentIDIndex).SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(studentEmailIndex).SetUnique(true)},
		},
		registrationsCollection: {
			{
				Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "courseId", Value: 1}},
				Options: options.Index().SetName(registrationPairIndex).SetUnique(true),
			},
			{Keys: bson.D{{Key: "courseId", Value: 1}, {Key: "paymentStatus", Value: 1}}},
		},
		agreementsCollection: {
			{
				Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "courseId", Value: 1}},
				Options: options.Index().SetName(agreementPairIndex).SetUnique(true),
			},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Courses:       &courseRepo{coll: s.db.Collection(coursesCollection)},
		Students:      &studentRepo{coll: s.db.Collection(studentsCollection)},
		Registrations: &registrationRepo{client: s.client, db: s.db},
		Agreements:    &agreementRepo{coll: s.db.Collection(agreementsCollection)},
	}
}

// Drop removes the whole database
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// newID returns a hex ObjectID; the hex form sorts in creation order
func newID() string {
	return primitive.NewObjectID().Hex()
}

func isCourseID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// duplicateKeyOn reports whether err is a duplicate key error raised by the named index
func duplicateKeyOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

var newestFirst = bson.D{{Key: "_id", Value: -1}}
