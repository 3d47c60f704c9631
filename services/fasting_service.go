package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lucaswall/food-scanner-sub003/models"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"

	minutesPerDay = 24 * 60
)

// fastingLogSource is the read-only slice of the food log the engine needs.
type fastingLogSource interface {
	EntriesInDateRange(ctx context.Context, userID uint, from, to string) ([]models.FoodLogEntry, error)
}

type FastingService struct{ logs fastingLogSource }

func NewFastingService(logs fastingLogSource) *FastingService {
	return &FastingService{logs: logs}
}

// FastingWindow is the overnight gap ending on Date. FirstMealTime and
// DurationMinutes are nil while the fast is still open (no meal logged on
// Date yet).
type FastingWindow struct {
	Date            string  `json:"date"`
	LastMealTime    string  `json:"last_meal_time"`
	FirstMealTime   *string `json:"first_meal_time"`
	DurationMinutes *int    `json:"duration_minutes"`
}

// WindowForDate computes the fasting window ending on date. Returns nil
// (no error) when the previous day has no meals: without a last meal there
// is no fast to measure.
func (s *FastingService) WindowForDate(ctx context.Context, userID uint, date string) (*FastingWindow, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	prev := day.AddDate(0, 0, -1).Format(dateLayout)

	entries, err := s.logs.EntriesInDateRange(ctx, userID, prev, date)
	if err != nil {
		return nil, err
	}

	clocks, err := bucketClocksByDate(entries)
	if err != nil {
		return nil, err
	}
	return windowFromBuckets(date, prev, clocks), nil
}

// WindowsForRange computes one window per day in [from, to] with a single
// fetch spanning [from-1, to]. Days whose previous day has no meals are
// omitted, so the result may be shorter than the day count.
func (s *FastingService) WindowsForRange(ctx context.Context, userID uint, from, to string) ([]FastingWindow, error) {
	first, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	last, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if last.Before(first) {
		return nil, fmt.Errorf("from %s is after to %s", from, to)
	}

	entries, err := s.logs.EntriesInDateRange(ctx, userID,
		first.AddDate(0, 0, -1).Format(dateLayout), to)
	if err != nil {
		return nil, err
	}

	clocks, err := bucketClocksByDate(entries)
	if err != nil {
		return nil, err
	}

	var out []FastingWindow
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		prev := d.AddDate(0, 0, -1).Format(dateLayout)
		if w := windowFromBuckets(date, prev, clocks); w != nil {
			out = append(out, *w)
		}
	}
	return out, nil
}

// ---------- internals ----------

// dayClocks carries the earliest and latest meal clock of one calendar day.
// Seconds-of-day drive the min/max selection; the original strings are kept
// for output so "08:15:30" stays "08:15:30".
type dayClocks struct {
	firstSec, lastSec int
	firstStr, lastStr string
}

func bucketClocksByDate(entries []models.FoodLogEntry) (map[string]*dayClocks, error) {
	buckets := make(map[string]*dayClocks, 2)
	for _, e := range entries {
		sec, err := clockSeconds(e.Time)
		if err != nil {
			return nil, err
		}
		dc, ok := buckets[e.Date]
		if !ok {
			buckets[e.Date] = &dayClocks{firstSec: sec, lastSec: sec, firstStr: e.Time, lastStr: e.Time}
			continue
		}
		if sec < dc.firstSec {
			dc.firstSec, dc.firstStr = sec, e.Time
		}
		if sec > dc.lastSec {
			dc.lastSec, dc.lastStr = sec, e.Time
		}
	}
	return buckets, nil
}

func windowFromBuckets(date, prevDate string, buckets map[string]*dayClocks) *FastingWindow {
	prev, ok := buckets[prevDate]
	if !ok {
		return nil // no baseline meal on the previous day
	}

	w := &FastingWindow{Date: date, LastMealTime: prev.lastStr}

	cur, ok := buckets[date]
	if !ok {
		return w // fast still open
	}

	first := cur.firstStr
	// whole-minute arithmetic across midnight; always positive because the
	// two clocks sit on consecutive days
	dur := cur.firstSec/60 + minutesPerDay - prev.lastSec/60
	w.FirstMealTime = &first
	w.DurationMinutes = &dur
	return w
}

// clockSeconds parses a zero-padded HH:MM:SS clock into seconds since
// midnight.
func clockSeconds(t string) (int, error) {
	c, err := time.Parse(clockLayout, t)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	return c.Hour()*3600 + c.Minute()*60 + c.Second(), nil
}
