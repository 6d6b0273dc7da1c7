package schedule

import (
	"errors"
	"fmt"
	"time"
)

const (
	SlotMinutes  = 30
	OpenMinutes  = 9 * 60
	LastSlotTime = 17*60 + 30
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrInvalidTime = errors.New("invalid time format")
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

func ParseDate(dateStr string) (time.Time, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// ParseClockToMinutes converts an HH:MM label into minutes after midnight.
// Labels must be zero padded so they stay usable as exact store keys.
func ParseClockToMinutes(timeStr string) (int, error) {
	if len(timeStr) != len(clockLayout) {
		return 0, ErrInvalidTime
	}
	tm, err := time.Parse(clockLayout, timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// DailyGrid returns the slot labels of a working day in ascending order.
// The grid is the same for every date.
func DailyGrid() []string {
	slots := make([]string, 0, (LastSlotTime-OpenMinutes)/SlotMinutes+1)
	for cursor := OpenMinutes; cursor <= LastSlotTime; cursor += SlotMinutes {
		slots = append(slots, MinutesToClock(cursor))
	}
	return slots
}

func IsOnGrid(timeStr string) bool {
	minutes, err := ParseClockToMinutes(timeStr)
	if err != nil {
		return false
	}
	if minutes < OpenMinutes || minutes > LastSlotTime {
		return false
	}
	return (minutes-OpenMinutes)%SlotMinutes == 0
}

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// MarkReserved pairs every grid label with its availability.
func MarkReserved(grid []string, reserved map[string]bool) []Slot {
	out := make([]Slot, 0, len(grid))
	for _, s := range grid {
		out = append(out, Slot{Time: s, Available: !reserved[s]})
	}
	return out
}
