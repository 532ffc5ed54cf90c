package utils

import "time"

// FineSchedule holds the postponement fines by the weekday of the request
// and the late fee added per overdue week.
type FineSchedule struct {
	Friday         int32
	WednesdayThurs int32
	SaturdayToTue  int32
	OverduePerWeek int32
}

func DefaultFineSchedule() FineSchedule {
	return FineSchedule{
		Friday:         1500,
		WednesdayThurs: 1000,
		SaturdayToTue:  0,
		OverduePerWeek: 1500,
	}
}

// PostponementFine returns the fine for a postponement requested on day.
func (f FineSchedule) PostponementFine(day time.Time) int32 {
	switch day.Weekday() {
	case time.Friday:
		return f.Friday
	case time.Wednesday, time.Thursday:
		return f.WednesdayThurs
	default:
		return f.SaturdayToTue
	}
}
