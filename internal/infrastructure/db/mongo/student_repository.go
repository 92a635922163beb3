package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

const (
	studentsCollection    = "students"
	performanceCollection = "performance_records"
)

// MongoStudentRepository persists students and performance records. It has
// no uniqueness constraints; all correctness-critical invariants live in
// the identity store.
type MongoStudentRepository struct {
	students    *mongo.Collection
	performance *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *MongoStudentRepository {
	return &MongoStudentRepository{
		students:    db.Collection(studentsCollection),
		performance: db.Collection(performanceCollection),
	}
}

type mongoStudent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FirstName   string             `bson:"first_name"`
	LastName    string             `bson:"last_name"`
	Email       string             `bson:"email"`
	DateOfBirth int64              `bson:"date_of_birth"`
	CreatedAt   int64              `bson:"created_at"`
}

type mongoPerformance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	StudentID string             `bson:"student_id"`
	Subject   string             `bson:"subject"`
	Score     float64            `bson:"score"`
	Date      int64              `bson:"date"`
	Remarks   string             `bson:"remarks,omitempty"`
}

func (r *MongoStudentRepository) Insert(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	doc := mongoStudent{
		FirstName:   student.FirstName,
		LastName:    student.LastName,
		Email:       student.Email,
		DateOfBirth: student.DateOfBirth.Unix(),
		CreatedAt:   student.CreatedAt.Unix(),
	}

	res, err := r.students.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert student: %w", err)
	}

	created := *student
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoStudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	var ms mongoStudent
	if err := r.students.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return fromMongoStudent(&ms), nil
}

func (r *MongoStudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	cur, err := r.students.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cur.Close(ctx)

	var students []domain.Student
	for cur.Next(ctx) {
		var ms mongoStudent
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode student: %w", err)
		}
		students = append(students, *fromMongoStudent(&ms))
	}
	return students, cur.Err()
}

func (r *MongoStudentRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.students.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

func (r *MongoStudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStudentNotFound
	}
	res, err := r.students.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrStudentNotFound
	}
	// Orphaned performance records are removed with their student.
	if _, err := r.performance.DeleteMany(ctx, bson.M{"student_id": id}); err != nil {
		return fmt.Errorf("delete performance records: %w", err)
	}
	return nil
}

func (r *MongoStudentRepository) InsertPerformance(ctx context.Context, record *domain.PerformanceRecord) (*domain.PerformanceRecord, error) {
	doc := mongoPerformance{
		StudentID: record.StudentID,
		Subject:   record.Subject,
		Score:     record.Score,
		Date:      record.Date.Unix(),
		Remarks:   record.Remarks,
	}

	res, err := r.performance.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert performance record: %w", err)
	}

	created := *record
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoStudentRepository) ListPerformance(ctx context.Context, studentID string) ([]domain.PerformanceRecord, error) {
	cur, err := r.performance.Find(ctx, bson.M{"student_id": studentID}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list performance records: %w", err)
	}
	defer cur.Close(ctx)

	var records []domain.PerformanceRecord
	for cur.Next(ctx) {
		var mp mongoPerformance
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode performance record: %w", err)
		}
		records = append(records, domain.PerformanceRecord{
			ID:        mp.ID.Hex(),
			StudentID: mp.StudentID,
			Subject:   mp.Subject,
			Score:     mp.Score,
			Date:      unixToTime(mp.Date),
			Remarks:   mp.Remarks,
		})
	}
	return records, cur.Err()
}

func fromMongoStudent(ms *mongoStudent) *domain.Student {
	return &domain.Student{
		ID:          ms.ID.Hex(),
		FirstName:   ms.FirstName,
		LastName:    ms.LastName,
		Email:       ms.Email,
		DateOfBirth: unixToTime(ms.DateOfBirth),
		CreatedAt:   unixToTime(ms.CreatedAt),
	}
}
