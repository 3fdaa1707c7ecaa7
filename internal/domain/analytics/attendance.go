package analytics

import (
	"github.com/shopspring/decimal"

	"classmarket/internal/domain/booking"
)

type Attendance struct {
	Attended       int     `json:"attended"`
	NoShow         int     `json:"no_show"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AggregateAttendance counts marked outcomes. The rate is a percentage with
// one decimal, rounded half-up, and 0 when nothing has been marked yet.
func AggregateAttendance(window []booking.Booking) Attendance {
	var a Attendance
	for _, b := range window {
		switch b.AttendanceStatus {
		case booking.AttendanceAttended:
			a.Attended++
		case booking.AttendanceNoShow:
			a.NoShow++
		}
	}

	marked := a.Attended + a.NoShow
	if marked == 0 {
		return a
	}
	a.AttendanceRate = decimal.NewFromInt(int64(a.Attended) * 100).
		Div(decimal.NewFromInt(int64(marked))).
		Round(1).
		InexactFloat64()
	return a
}
