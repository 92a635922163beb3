package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// StudentRecordService is the record-keeping collaborator. Authorization
// never happens here; the guard middleware has already decided before a
// request reaches this service.
type StudentRecordService struct {
	repo ports.StudentRepository
	log  zerolog.Logger
}

func NewStudentRecordService(repo ports.StudentRepository, log zerolog.Logger) *StudentRecordService {
	return &StudentRecordService{repo: repo, log: log}
}

func (s *StudentRecordService) Create(ctx context.Context, in ports.StudentInput) (*domain.Student, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, &domain.ValidationError{Message: "First and last name are required"}
	}
	if !validEmail(in.Email) {
		return nil, &domain.ValidationError{Message: "Please provide a valid email address"}
	}

	student := &domain.Student{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		DateOfBirth: in.DateOfBirth,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, student)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("student_id", created.ID).Msg("student created")
	return created, nil
}

func (s *StudentRecordService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StudentRecordService) List(ctx context.Context) ([]domain.Student, error) {
	return s.repo.List(ctx)
}

func (s *StudentRecordService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *StudentRecordService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *StudentRecordService) AddPerformance(ctx context.Context, studentID string, in ports.PerformanceInput) (*domain.PerformanceRecord, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, &domain.ValidationError{Message: "Subject is required"}
	}
	if in.Score < 0 || in.Score > 100 {
		return nil, &domain.ValidationError{Message: "Score must be between 0 and 100"}
	}

	// Reject records for unknown students up front.
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		return nil, err
	}

	record := &domain.PerformanceRecord{
		StudentID: studentID,
		Subject:   strings.TrimSpace(in.Subject),
		Score:     in.Score,
		Date:      in.Date,
		Remarks:   strings.TrimSpace(in.Remarks),
	}
	return s.repo.InsertPerformance(ctx, record)
}

func (s *StudentRecordService) Performance(ctx context.Context, studentID string) ([]domain.PerformanceRecord, error) {
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListPerformance(ctx, studentID)
}
