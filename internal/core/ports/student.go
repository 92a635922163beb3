package ports

import (
	"context"
	"time"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

// StudentRepository persists students and their performance records.
type StudentRepository interface {
	Insert(ctx context.Context, student *domain.Student) (*domain.Student, error)
	FindByID(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	InsertPerformance(ctx context.Context, record *domain.PerformanceRecord) (*domain.PerformanceRecord, error)
	ListPerformance(ctx context.Context, studentID string) ([]domain.PerformanceRecord, error)
}

// StudentInput carries a new student into the record service.
type StudentInput struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
}

// PerformanceInput carries a new graded result for a student.
type PerformanceInput struct {
	Subject string
	Score   float64
	Date    time.Time
	Remarks string
}

// StudentService is the record-keeping collaborator. It holds no
// authorization logic; every call reaches it through the guard middleware.
type StudentService interface {
	Create(ctx context.Context, in StudentInput) (*domain.Student, error)
	Get(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	AddPerformance(ctx context.Context, studentID string, in PerformanceInput) (*domain.PerformanceRecord, error)
	Performance(ctx context.Context, studentID string) ([]domain.PerformanceRecord, error)
}
