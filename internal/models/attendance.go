package models

import "time"

// DateLayout is the only accepted calendar date format. Dates are stored as
// text, so range filters rely on this layout sorting lexicographically.
const DateLayout = "2006-01-02"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
)

// Attendance is a single attendance mark for one student on one date.
type Attendance struct {
	ID        int64            `db:"id" json:"-"`
	StudentID string           `db:"student_id" json:"student_id"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"-"`
}

// AttendanceFilter scopes the per-student attendance query. Nil bounds are open.
type AttendanceFilter struct {
	StudentID string
	StartDate *string
	EndDate   *string
}
