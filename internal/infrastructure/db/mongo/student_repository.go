package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campushq/student-system/internal/core/domain"
)

const studentsCollection = "students"

type StudentRepository struct {
	coll *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{coll: db.Collection(studentsCollection)}
}

type studentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	RollNumber     string             `bson:"roll_number"`
	CourseEnrolled string             `bson:"course_enrolled"`
	GPA            float64            `bson:"gpa"`
	Status         string             `bson:"status"`
	PhoneNumber    string             `bson:"phone_number,omitempty"`
	Address        string             `bson:"address,omitempty"`
	DocumentURL    string             `bson:"document_url,omitempty"`
	CreatedBy      string             `bson:"created_by"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func toStudentDoc(s *domain.Student) studentDoc {
	return studentDoc{
		Name:           s.Name,
		Email:          s.Email,
		RollNumber:     s.RollNumber,
		CourseEnrolled: s.CourseEnrolled,
		GPA:            s.GPA,
		Status:         string(s.Status),
		PhoneNumber:    s.PhoneNumber,
		Address:        s.Address,
		DocumentURL:    s.DocumentURL,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (d studentDoc) toDomain() domain.Student {
	return domain.Student{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Email:          d.Email,
		RollNumber:     d.RollNumber,
		CourseEnrolled: d.CourseEnrolled,
		GPA:            d.GPA,
		Status:         domain.StudentStatus(d.Status),
		PhoneNumber:    d.PhoneNumber,
		Address:        d.Address,
		DocumentURL:    d.DocumentURL,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func (r *StudentRepository) FindAll(ctx context.Context) ([]domain.Student, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find students: %w", err)
	}
	return decodeStudents(ctx, cur)
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	var doc studentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	student := doc.toDomain()
	return &student, nil
}

// SearchByName matches a case-insensitive substring of the student name. The
// input is quoted so user text cannot inject regex metacharacters.
func (r *StudentRepository) SearchByName(ctx context.Context, name string) ([]domain.Student, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return decodeStudents(ctx, cur)
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	res, err := r.coll.InsertOne(ctx, toStudentDoc(student))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateStudent
		}
		return nil, fmt.Errorf("insert student: %w", err)
	}

	created := *student
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(student.ID)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toStudentDoc(student))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateStudent
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrStudentNotFound
	}

	updated := *student
	return &updated, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStudentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete students: %w", err)
	}
	return res.DeletedCount, nil
}

func decodeStudents(ctx context.Context, cur *mongo.Cursor) ([]domain.Student, error) {
	defer cur.Close(ctx)

	students := make([]domain.Student, 0)
	for cur.Next(ctx) {
		var doc studentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode student: %w", err)
		}
		students = append(students, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}
