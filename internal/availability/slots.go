package availability

import (
	"fmt"
	"time"
)

// TimeRange is a clinic-local open-hours range. Hours are nominal whole
// hours in [0,24); no timezone arithmetic is applied.
type TimeRange struct {
	OpenHour  int `json:"openHour"`
	CloseHour int `json:"closeHour"`
}

// Window is one day's availability for a clinic.
type Window struct {
	Day        string      `json:"day"`
	IsClosed   bool        `json:"isClosed"`
	TimeRanges []TimeRange `json:"timeRanges"`
}

// GenerateSlots expands open-hours ranges into discrete bookable "HH:00"
// strings, one per whole hour in [OpenHour, CloseHour), in range order then
// hour order. Malformed or empty ranges contribute no slots.
func GenerateSlots(ranges []TimeRange) []string {
	slots := []string{}
	for _, r := range ranges {
		if r.OpenHour < 0 || r.CloseHour > 24 || r.CloseHour <= r.OpenHour {
			continue
		}
		for hour := r.OpenHour; hour < r.CloseHour; hour++ {
			slots = append(slots, fmt.Sprintf("%02d:00", hour))
		}
	}
	return slots
}

// DayOfWeek returns the lowercase English weekday name for a YYYY-MM-DD date.
func DayOfWeek(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("availability: parse date %q: %w", date, err)
	}
	days := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	return days[int(t.Weekday())], nil
}
