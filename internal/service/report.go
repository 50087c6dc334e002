package service

import (
	"fmt"

	"github.com/noah-isme/attendance-api/internal/models"
)

// Tally counts records. Only an exact "Present" status counts as present;
// every other value, including legacy free-text rows, counts as absent.
func Tally(records []models.Attendance) models.AttendanceTally {
	tally := models.AttendanceTally{Total: len(records)}
	for _, record := range records {
		if record.Status == models.AttendanceStatusPresent {
			tally.Present++
		}
	}
	tally.Absent = tally.Total - tally.Present
	tally.Percentage = FormatPercentage(tally.Present, tally.Total)
	return tally
}

// FormatPercentage renders present/total as a two-decimal percentage.
// A zero total yields "0.00%".
func FormatPercentage(present, total int) string {
	var pct float64
	if total > 0 {
		pct = float64(present) / float64(total) * 100
	}
	return fmt.Sprintf("%.2f%%", pct)
}
