// Package bootstrap performs one-time startup provisioning: the default
// admin identity and a small sample data set for development. Seeding logs a
// single summary line and holds no state between runs.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
	"github.com/studentmonitor/student-monitor-api/internal/core/service"
)

// Seeder provisions initial data. Admin creation is idempotent through the
// identity store's unique constraint; sample data is skipped when students
// already exist.
type Seeder struct {
	users    *service.UserManagementService
	students ports.StudentService
	log      zerolog.Logger
}

func NewSeeder(users *service.UserManagementService, students ports.StudentService, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, students: students, log: log}
}

// Run executes admin bootstrap and, in development, sample-data seeding.
func (s *Seeder) Run(ctx context.Context, admin service.BootstrapAdminInput, seedSamples bool) error {
	if err := s.users.BootstrapAdmin(ctx, admin); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if !seedSamples {
		return nil
	}
	return s.seedSampleData(ctx)
}

func (s *Seeder) seedSampleData(ctx context.Context) error {
	count, err := s.students.Count(ctx)
	if err != nil {
		return fmt.Errorf("count students: %w", err)
	}
	if count > 0 {
		return nil
	}

	type sample struct {
		student ports.StudentInput
		records []ports.PerformanceInput
	}

	samples := []sample{
		{
			student: ports.StudentInput{
				FirstName:   "John",
				LastName:    "Doe",
				Email:       "john.doe@example.com",
				DateOfBirth: date(2000, time.May, 15),
			},
			records: []ports.PerformanceInput{
				{Subject: "Mathematics", Score: 85.5, Date: date(2024, time.September, 15), Remarks: "Good understanding of algebra"},
				{Subject: "Physics", Score: 92.0, Date: date(2024, time.September, 20), Remarks: "Excellent lab work"},
				{Subject: "Chemistry", Score: 78.5, Date: date(2024, time.September, 18), Remarks: "Needs improvement in organic chemistry"},
			},
		},
		{
			student: ports.StudentInput{
				FirstName:   "Jane",
				LastName:    "Smith",
				Email:       "jane.smith@example.com",
				DateOfBirth: date(1999, time.August, 22),
			},
			records: []ports.PerformanceInput{
				{Subject: "Mathematics", Score: 95.0, Date: date(2024, time.September, 16), Remarks: "Outstanding performance"},
				{Subject: "English Literature", Score: 88.0, Date: date(2024, time.September, 22), Remarks: "Creative writing skills are impressive"},
				{Subject: "History", Score: 82.5, Date: date(2024, time.September, 19), Remarks: "Good analysis of historical events"},
			},
		},
	}

	students, records := 0, 0
	for _, sm := range samples {
		created, err := s.students.Create(ctx, sm.student)
		if err != nil {
			return fmt.Errorf("seed student: %w", err)
		}
		students++
		for _, rec := range sm.records {
			if _, err := s.students.AddPerformance(ctx, created.ID, rec); err != nil {
				return fmt.Errorf("seed performance record: %w", err)
			}
			records++
		}
	}

	s.log.Info().
		Int("students", students).
		Int("performance_records", records).
		Msg("sample data seeded")
	return nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
