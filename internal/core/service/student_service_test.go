package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

type stubStudentRepo struct {
	mu       sync.Mutex
	students map[string]*domain.Student
	records  map[string][]domain.PerformanceRecord
	seq      int
}

func newStubStudentRepo() *stubStudentRepo {
	return &stubStudentRepo{
		students: make(map[string]*domain.Student),
		records:  make(map[string][]domain.PerformanceRecord),
	}
}

func (r *stubStudentRepo) Insert(_ context.Context, student *domain.Student) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	created := *student
	created.ID = fmt.Sprintf("student_%d", r.seq)
	r.students[created.ID] = &created
	return &created, nil
}

func (r *stubStudentRepo) FindByID(_ context.Context, id string) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.students[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrStudentNotFound
}

func (r *stubStudentRepo) List(_ context.Context) ([]domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubStudentRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.students)), nil
}

func (r *stubStudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return domain.ErrStudentNotFound
	}
	delete(r.students, id)
	delete(r.records, id)
	return nil
}

func (r *stubStudentRepo) InsertPerformance(_ context.Context, record *domain.PerformanceRecord) (*domain.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	created := *record
	created.ID = fmt.Sprintf("record_%d", r.seq)
	r.records[created.StudentID] = append(r.records[created.StudentID], created)
	return &created, nil
}

func (r *stubStudentRepo) ListPerformance(_ context.Context, studentID string) ([]domain.PerformanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PerformanceRecord(nil), r.records[studentID]...), nil
}

func newStudentFixture() (*StudentRecordService, *stubStudentRepo) {
	repo := newStubStudentRepo()
	return NewStudentRecordService(repo, zerolog.Nop()), repo
}

func TestStudentService_Create(t *testing.T) {
	svc, _ := newStudentFixture()

	student, err := svc.Create(context.Background(), ports.StudentInput{
		FirstName:   "  John ",
		LastName:    "Doe",
		Email:       "John.Doe@Example.com",
		DateOfBirth: time.Date(2005, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if student.FirstName != "John" {
		t.Fatalf("expected trimmed first name, got %q", student.FirstName)
	}
	if student.Email != "john.doe@example.com" {
		t.Fatalf("expected lowercased email, got %q", student.Email)
	}
}

func TestStudentService_Create_Invalid(t *testing.T) {
	svc, _ := newStudentFixture()

	cases := []struct {
		name string
		in   ports.StudentInput
	}{
		{"missing name", ports.StudentInput{Email: "a@x.com"}},
		{"bad email", ports.StudentInput{FirstName: "A", LastName: "B", Email: "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestStudentService_AddPerformance(t *testing.T) {
	svc, _ := newStudentFixture()

	student, err := svc.Create(context.Background(), ports.StudentInput{
		FirstName: "Jane", LastName: "Smith", Email: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	record, err := svc.AddPerformance(context.Background(), student.ID, ports.PerformanceInput{
		Subject: "Mathematics",
		Score:   92.5,
		Date:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Remarks: "Excellent",
	})
	if err != nil {
		t.Fatalf("AddPerformance returned error: %v", err)
	}
	if record.ID == "" || record.StudentID != student.ID {
		t.Fatalf("unexpected record: %+v", record)
	}

	records, err := svc.Performance(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("Performance returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestStudentService_AddPerformance_Invalid(t *testing.T) {
	svc, _ := newStudentFixture()

	student, err := svc.Create(context.Background(), ports.StudentInput{
		FirstName: "Jane", LastName: "Smith", Email: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.AddPerformance(context.Background(), student.ID, ports.PerformanceInput{Score: 50}); err == nil {
		t.Fatal("expected error for missing subject")
	}
	if _, err := svc.AddPerformance(context.Background(), student.ID, ports.PerformanceInput{Subject: "Math", Score: 101}); err == nil {
		t.Fatal("expected error for out-of-range score")
	}
	if _, err := svc.AddPerformance(context.Background(), "missing", ports.PerformanceInput{Subject: "Math", Score: 80}); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}
