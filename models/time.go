package models

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/octabyte/yoga-studio/utils"
)

// Date is a calendar day. It marshals as "2006-01-02" and accepts any of the
// timestamp shapes the studio API emits, keeping only the day.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(utils.DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(utils.DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}

	t, err := utils.ParseTime(raw)
	if err != nil {
		return err
	}
	*d = NewDate(t.Date())
	return nil
}

// Time is an instant that tolerates zone-less and day-only encodings.
type Time struct {
	time.Time
}

func NewTime(t time.Time) *Time {
	return &Time{t}
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := utils.ParseTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
