package models

import "time"

// Student represents a learner registered for attendance tracking.
// RollNo is the immutable business key referenced by attendance records.
type Student struct {
	ID         int64     `db:"id" json:"-"`
	Name       string    `db:"name" json:"name"`
	RollNo     string    `db:"roll_no" json:"roll_no"`
	Department string    `db:"department" json:"department"`
	Email      string    `db:"email" json:"email"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}

// StudentFilter encapsulates the optional listing filters. Empty fields are ignored.
type StudentFilter struct {
	Department string
	RollNo     string
}
