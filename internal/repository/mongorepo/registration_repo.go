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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type registrationDoc struct {
	ID                string    `bson:"_id"`
	StudentID         string    `bson:"studentId"`
	CourseID          string    `bson:"courseId"`
	PaymentStatus     string    `bson:"paymentStatus"`
	AgreementAccepted bool      `bson:"agreementAccepted"`
	RegisteredAt      time.Time `bson:"registeredAt"`
}

func (d registrationDoc) model() model.Registration {
	return model.Registration{
		ID:                d.ID,
		StudentID:         d.StudentID,
		CourseID:          d.CourseID,
		PaymentStatus:     model.PaymentStatus(d.PaymentStatus),
		AgreementAccepted: d.AgreementAccepted,
		RegisteredAt:      d.RegisteredAt,
	}
}

type registrationRepo struct {
	client *mongo.Client
	db     *mongo.Database
}

func (r *registrationRepo) registrations() *mongo.Collection {
	return r.db.Collection(registrationsCollection)
}

func paidFilter(courseID string) bson.M {
	return bson.M{"courseId": courseID, "paymentStatus": string(model.PaymentPaid)}
}

// Admit runs inside a transaction that first increments admissionSeq on the course document.
// Concurrent admissions to one course therefore write-conflict on that document and the
// driver retries the losers, which then observe the winner's registration.
func (r *registrationRepo) Admit(ctx context.Context, reg *model.Registration) error {
	if !isCourseID(reg.CourseID) {
		return repository.ErrNotFound
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("starting admission session: %w", err)
	}
	defer sess.EndSession(ctx)

	doc := registrationDoc{
		StudentID:         reg.StudentID,
		CourseID:          reg.CourseID,
		PaymentStatus:     string(reg.PaymentStatus),
		AgreementAccepted: reg.AgreementAccepted,
	}

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var course courseDoc
		err := r.db.Collection(coursesCollection).FindOneAndUpdate(sc,
			bson.M{"_id": reg.CourseID},
			bson.M{"$inc": bson.M{"admissionSeq": 1}},
		).Decode(&course)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, repository.ErrNotFound
			}
			return nil, fmt.Errorf("locking course %s: %w", reg.CourseID, err)
		}

		students, err := r.db.Collection(studentsCollection).CountDocuments(sc, bson.M{"studentId": reg.StudentID})
		if err != nil {
			return nil, fmt.Errorf("checking student %s: %w", reg.StudentID, err)
		}
		if students == 0 {
			return nil, repository.ErrNotFound
		}

		existing, err := r.registrations().CountDocuments(sc, bson.M{"studentId": reg.StudentID, "courseId": reg.CourseID})
		if err != nil {
			return nil, fmt.Errorf("checking existing registration: %w", err)
		}
		if existing > 0 {
			return nil, repository.ErrDuplicate
		}

		paid, err := r.registrations().CountDocuments(sc, paidFilter(reg.CourseID))
		if err != nil {
			return nil, fmt.Errorf("counting paid registrations for course %s: %w", reg.CourseID, err)
		}
		if int(paid) >= course.MaxRegistrations {
			return nil, repository.ErrCapacityReached
		}

		doc.ID = newID()
		doc.RegisteredAt = time.Now().UTC().Truncate(time.Millisecond)
		if _, err := r.registrations().InsertOne(sc, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, repository.ErrDuplicate
			}
			return nil, fmt.Errorf("inserting registration: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	reg.ID = doc.ID
	reg.RegisteredAt = doc.RegisteredAt
	return nil
}

func (r *registrationRepo) CountPaid(ctx context.Context, courseID string) (int, error) {
	n, err := r.registrations().CountDocuments(ctx, paidFilter(courseID))
	if err != nil {
		return 0, fmt.Errorf("counting paid registrations for course %s: %w", courseID, err)
	}
	return int(n), nil
}

func (r *registrationRepo) CountPaidByCourse(ctx context.Context, courseIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "courseId", Value: bson.D{{Key: "$in", Value: courseIDs}}},
			{Key: "paymentStatus", Value: string(model.PaymentPaid)},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$courseId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.registrations().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("counting paid registrations by course: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		CourseID string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decoding registration counts: %w", err)
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Count
	}
	return counts, nil
}

func (r *registrationRepo) ListPaidByCourse(ctx context.Context, courseID string) ([]model.CourseRegistration, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: paidFilter(courseID)}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: studentsCollection},
			{Key: "localField", Value: "studentId"},
			{Key: "foreignField", Value: "studentId"},
			{Key: "as", Value: "student"},
		}}},
		{{Key: "$unwind", Value: "$student"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: coursesCollection},
			{Key: "localField", Value: "courseId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "course"},
		}}},
		{{Key: "$unwind", Value: "$course"}},
	}
	cursor, err := r.registrations().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("querying registrations for course %s: %w", courseID, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Registration registrationDoc `bson:",inline"`
		Student      studentDoc      `bson:"student"`
		Course       courseDoc       `bson:"course"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decoding course registrations: %w", err)
	}

	result := make([]model.CourseRegistration, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.CourseRegistration{
			Registration: row.Registration.model(),
			Student: model.StudentSummary{
				StudentID: row.Student.StudentID,
				FirstName: row.Student.FirstName,
				LastName:  row.Student.LastName,
			},
			CourseName: row.Course.CourseName,
		})
	}
	return result, nil
}

func (r *registrationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentRegistration, error) {
	cursor, err := r.registrations().Find(ctx, bson.M{"studentId": studentID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("querying registrations for student %s: %w", studentID, err)
	}
	defer cursor.Close(ctx)

	var docs []registrationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding student registrations: %w", err)
	}
	if len(docs) == 0 {
		return []model.StudentRegistration{}, nil
	}

	courseIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		courseIDs = append(courseIDs, d.CourseID)
	}
	courseCursor, err := r.db.Collection(coursesCollection).Find(ctx, bson.M{"_id": bson.M{"$in": courseIDs}})
	if err != nil {
		return nil, fmt.Errorf("loading courses for student %s: %w", studentID, err)
	}
	defer courseCursor.Close(ctx)

	var courses []courseDoc
	if err := courseCursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decoding courses: %w", err)
	}
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c.model()
	}

	result := make([]model.StudentRegistration, 0, len(docs))
	for _, d := range docs {
		result = append(result, model.StudentRegistration{Registration: d.model(), Course: byID[d.CourseID]})
	}
	return result, nil
}
