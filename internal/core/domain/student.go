package domain

import (
	"errors"
	"time"
)

var ErrStudentNotFound = errors.New("student not found")

// Student is a monitored record subject. The identity core never depends on
// students; the record surface depends on the core for authorization only.
type Student struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
}

// PerformanceRecord is a single graded result attached to a student.
type PerformanceRecord struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Subject   string    `json:"subject"`
	Score     float64   `json:"score"`
	Date      time.Time `json:"date"`
	Remarks   string    `json:"remarks,omitempty"`
}
