package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
)

type studentRecord struct {
	Name         string    `json:"nome" bson:"nome"`
	Registration string    `json:"matricula" bson:"matricula"`
	Email        string    `json:"email" bson:"email"`
	Course       string    `json:"curso" bson:"curso"`
	Phone        string    `json:"telefone" bson:"telefone"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

func newStudentRecord(s student.Student) studentRecord {
	return studentRecord{
		Name:         s.Name,
		Registration: s.Registration,
		Email:        s.Email,
		Course:       s.Course,
		Phone:        s.Phone,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r studentRecord) toStudent(id string) student.Student {
	return student.Student{
		ID:           id,
		Name:         r.Name,
		Registration: r.Registration,
		Email:        r.Email,
		Course:       r.Course,
		Phone:        r.Phone,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type studentRepository struct {
	coll core.Collection
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(store core.DocStore) student.Repository {
	return &studentRepository{coll: store.Collection(StudentCollection)}
}

func (repo *studentRepository) decodeAll(docs []core.Document) ([]student.Student, error) {
	studs := make([]student.Student, 0, len(docs))
	for _, doc := range docs {
		var rec studentRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, errors.Wrap(err, "decoding student")
		}
		studs = append(studs, rec.toStudent(doc.ID()))
	}
	return studs, nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, stud student.Student) (student.Student, error) {
	id, err := repo.coll.Add(ctx, newStudentRecord(stud))
	if err != nil {
		return student.Student{}, err
	}
	stud.ID = id
	return stud, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	docs, err := repo.coll.All(ctx)
	if err != nil {
		return nil, err
	}
	return repo.decodeAll(docs)
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var rec studentRecord
	if err := getDoc(ctx, repo.coll, id, student.ErrNotFound, &rec); err != nil {
		return student.Student{}, err
	}
	return rec.toStudent(id), nil
}

func (repo *studentRepository) GetStudentByRegistration(ctx context.Context, registration string) (student.Student, error) {
	docs, err := repo.coll.Where(ctx, "matricula", registration)
	if err != nil {
		return student.Student{}, err
	}
	studs, err := repo.decodeAll(docs)
	if err != nil {
		return student.Student{}, err
	}
	if len(studs) == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return studs[0], nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, stud student.Student) (student.Student, error) {
	rec := newStudentRecord(stud)
	err := repo.coll.Update(ctx, stud.ID, core.Fields{
		"nome":      rec.Name,
		"matricula": rec.Registration,
		"email":     rec.Email,
		"curso":     rec.Course,
		"telefone":  rec.Phone,
		"updatedAt": rec.UpdatedAt,
	})
	if err != nil {
		return student.Student{}, mapNotFound(err, student.ErrNotFound)
	}
	return stud, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	return mapNotFound(repo.coll.Delete(ctx, id), student.ErrNotFound)
}
