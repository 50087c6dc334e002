package models

// AttendanceTally holds the counts computed from a set of attendance records.
type AttendanceTally struct {
	Total      int
	Present    int
	Absent     int
	Percentage string
}

// StudentReport is the per-student attendance summary.
type StudentReport struct {
	StudentID            string `json:"student_id"`
	TotalDays            int    `json:"total_days"`
	PresentDays          int    `json:"present_days"`
	AttendancePercentage string `json:"attendance_percentage"`
}

// DailyReport summarises attendance for a single date across all students.
type DailyReport struct {
	Date                 string `json:"date"`
	TotalStudents        int    `json:"total_students"`
	Present              int    `json:"present"`
	Absent               int    `json:"absent"`
	AttendancePercentage string `json:"attendance_percentage"`
}

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)
