// Package memory is an in-process store implementing the repository interfaces.
// A single mutex guards every collection, so each repository call, including
// Admit, is atomic with respect to all others.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"courseapp/internal/model"
	"courseapp/internal/repository"

	"github.com/google/uuid"
)

type courseRecord struct {
	seq    int64
	course model.Course
}

type registrationRecord struct {
	seq int64
	reg model.Registration
}

type agreementKey struct {
	studentID string
	courseID  string
}

// Store holds all collections
type Store struct {
	mu            sync.Mutex
	seq           int64
	now           func() time.Time
	courses       map[string]*courseRecord
	students      map[string]model.Student // by student id
	emails        map[string]string        // email -> student id
	registrations []registrationRecord
	agreements    map[agreementKey]model.Agreement
}

// New returns an empty store
func New() *Store {
	return &Store{
		now:        time.Now,
		courses:    make(map[string]*courseRecord),
		students:   make(map[string]model.Student),
		emails:     make(map[string]string),
		agreements: make(map[agreementKey]model.Agreement),
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Courses:       courseRepo{s},
		Students:      studentRepo{s},
		Registrations: registrationRepo{s},
		Agreements:    agreementRepo{s},
	}
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func copyCourse(c model.Course) model.Course {
	c.Prerequisites = append([]string{}, c.Prerequisites...)
	return c
}

type courseRepo struct{ s *Store }

func (r courseRepo) CreateCourse(_ context.Context, c *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Prerequisites == nil {
		c.Prerequisites = []string{}
	}
	r.s.courses[c.ID] = &courseRecord{seq: r.s.next(), course: copyCourse(*c)}
	return nil
}

func (r courseRepo) GetCourseByID(_ context.Context, courseID string) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.courses[courseID]
	if !ok {
		return nil, nil
	}
	c := copyCourse(rec.course)
	return &c, nil
}

func (r courseRepo) ListCourses(_ context.Context) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	recs := make([]*courseRecord, 0, len(r.s.courses))
	for _, rec := range r.s.courses {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	courses := make([]model.Course, 0, len(recs))
	for _, rec := range recs {
		courses = append(courses, copyCourse(rec.course))
	}
	return courses, nil
}

type studentRepo struct{ s *Store }

func (r studentRepo) CreateStudent(_ context.Context, st *model.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[st.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	if _, taken := r.s.students[st.StudentID]; taken {
		return repository.ErrDuplicateStudentID
	}
	now := r.s.now()
	st.ID = uuid.NewString()
	st.CreatedAt = now
	st.UpdatedAt = now
	r.s.students[st.StudentID] = *st
	r.s.emails[st.Email] = st.StudentID
	return nil
}

func (r studentRepo) GetStudentByStudentID(_ context.Context, studentID string) (*model.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.students[studentID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r studentRepo) GetStudentByEmail(_ context.Context, email string) (*model.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, nil
	}
	st := r.s.students[id]
	return &st, nil
}

func (r studentRepo) StudentIDExists(_ context.Context, studentID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.students[studentID]
	return ok, nil
}

type registrationRepo struct{ s *Store }

func (r registrationRepo) Admit(_ context.Context, reg *model.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.courses[reg.CourseID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.students[reg.StudentID]; !ok {
		return repository.ErrNotFound
	}
	paid := 0
	for _, existing := range r.s.registrations {
		if existing.reg.CourseID != reg.CourseID {
			continue
		}
		if existing.reg.StudentID == reg.StudentID {
			return repository.ErrDuplicate
		}
		if existing.reg.PaymentStatus == model.PaymentPaid {
			paid++
		}
	}
	if paid >= rec.course.MaxRegistrations {
		return repository.ErrCapacityReached
	}

	reg.ID = uuid.NewString()
	reg.RegisteredAt = r.s.now()
	r.s.registrations = append(r.s.registrations, registrationRecord{seq: r.s.next(), reg: *reg})
	return nil
}

func (r registrationRepo) CountPaid(_ context.Context, courseID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, rec := range r.s.registrations {
		if rec.reg.CourseID == courseID && rec.reg.PaymentStatus == model.PaymentPaid {
			n++
		}
	}
	return n, nil
}

func (r registrationRepo) CountPaidByCourse(_ context.Context, courseIDs []string) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	counts := make(map[string]int)
	for _, rec := range r.s.registrations {
		if wanted[rec.reg.CourseID] && rec.reg.PaymentStatus == model.PaymentPaid {
			counts[rec.reg.CourseID]++
		}
	}
	return counts, nil
}

// newestFirst returns the registrations matching keep ordered by insertion, newest first
func (r registrationRepo) newestFirst(keep func(model.Registration) bool) []model.Registration {
	var out []model.Registration
	for i := len(r.s.registrations) - 1; i >= 0; i-- {
		if keep(r.s.registrations[i].reg) {
			out = append(out, r.s.registrations[i].reg)
		}
	}
	return out
}

func (r registrationRepo) ListPaidByCourse(_ context.Context, courseID string) ([]model.CourseRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []model.CourseRegistration{}
	regs := r.newestFirst(func(reg model.Registration) bool {
		return reg.CourseID == courseID && reg.PaymentStatus == model.PaymentPaid
	})
	for _, reg := range regs {
		st := r.s.students[reg.StudentID]
		cr := model.CourseRegistration{
			Registration: reg,
			Student: model.StudentSummary{
				StudentID: st.StudentID,
				FirstName: st.FirstName,
				LastName:  st.LastName,
			},
		}
		if rec, ok := r.s.courses[reg.CourseID]; ok {
			cr.CourseName = rec.course.CourseName
		}
		result = append(result, cr)
	}
	return result, nil
}

func (r registrationRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []model.StudentRegistration{}
	regs := r.newestFirst(func(reg model.Registration) bool { return reg.StudentID == studentID })
	for _, reg := range regs {
		sr := model.StudentRegistration{Registration: reg}
		if rec, ok := r.s.courses[reg.CourseID]; ok {
			sr.Course = copyCourse(rec.course)
		}
		result = append(result, sr)
	}
	return result, nil
}

type agreementRepo struct{ s *Store }

func (r agreementRepo) Accept(_ context.Context, studentID, courseID string) (*model.Agreement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := agreementKey{studentID: studentID, courseID: courseID}
	now := r.s.now()
	a, ok := r.s.agreements[key]
	if !ok {
		a = model.Agreement{StudentID: studentID, CourseID: courseID, CreatedAt: now}
	}
	a.Accepted = true
	a.UpdatedAt = now
	r.s.agreements[key] = a
	return &a, nil
}

func (r agreementRepo) GetAgreement(_ context.Context, studentID, courseID string) (*model.Agreement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.agreements[agreementKey{studentID: studentID, courseID: courseID}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}
