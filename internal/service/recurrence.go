package service

import (
	"time"

	appValidator "github.com/noah-isme/dojo-api/internal/validator"
)

// maxOccurrences bounds a single recurring request to roughly a year of daily sessions.
const maxOccurrences = 366

// weeklyDates returns every date from start to end inclusive whose weekday is listed
// in days (Sunday is 0). Dates use the YYYY-MM-DD layout.
func weeklyDates(start, end string, days []int) ([]string, error) {
	from, err := time.Parse(appValidator.DateLayout, start)
	if err != nil {
		return nil, appValidator.Field("date", "must be a date in YYYY-MM-DD format")
	}
	to, err := time.Parse(appValidator.DateLayout, end)
	if err != nil {
		return nil, appValidator.Field("recurrenceEndDate", "must be a date in YYYY-MM-DD format")
	}
	if to.Before(from) {
		return nil, appValidator.Field("recurrenceEndDate", "must not be before date")
	}

	wanted := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		wanted[time.Weekday(d)] = true
	}

	var dates []string
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !wanted[day.Weekday()] {
			continue
		}
		if len(dates) == maxOccurrences {
			return nil, appValidator.Field("recurrenceEndDate", "recurrence would create more than 366 sessions")
		}
		dates = append(dates, day.Format(appValidator.DateLayout))
	}
	if len(dates) == 0 {
		return nil, appValidator.Field("daysOfWeek", "no dates in the range fall on the selected days")
	}
	return dates, nil
}
