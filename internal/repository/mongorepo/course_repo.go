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

type courseDoc struct {
	ID               string    `bson:"_id"`
	CourseName       string    `bson:"courseName"`
	Description      string    `bson:"description"`
	Duration         string    `bson:"duration"`
	Amount           float64   `bson:"amount"`
	ImageURL         string    `bson:"imageUrl"`
	Prerequisites    []string  `bson:"prerequisites"`
	MaxRegistrations int       `bson:"maxRegistrations"`
	AdmissionSeq     int64     `bson:"admissionSeq"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

func (d courseDoc) model() model.Course {
	prerequisites := d.Prerequisites
	if prerequisites == nil {
		prerequisites = []string{}
	}
	return model.Course{
		ID:               d.ID,
		CourseName:       d.CourseName,
		Description:      d.Description,
		Duration:         d.Duration,
		Amount:           d.Amount,
		ImageURL:         d.ImageURL,
		Prerequisites:    prerequisites,
		MaxRegistrations: d.MaxRegistrations,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type courseRepo struct {
	coll *mongo.Collection
}

func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if c.Prerequisites == nil {
		c.Prerequisites = []string{}
	}
	doc := courseDoc{
		ID:               newID(),
		CourseName:       c.CourseName,
		Description:      c.Description,
		Duration:         c.Duration,
		Amount:           c.Amount,
		ImageURL:         c.ImageURL,
		Prerequisites:    c.Prerequisites,
		MaxRegistrations: c.MaxRegistrations,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	c.ID = doc.ID
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	if !isCourseID(courseID) {
		return nil, nil
	}
	var doc courseDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": courseID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding course %s: %w", courseID, err)
	}
	c := doc.model()
	return &c, nil
}

func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []courseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding courses: %w", err)
	}
	courses := make([]model.Course, 0, len(docs))
	for _, d := range docs {
		courses = append(courses, d.model())
	}
	return courses, nil
}
