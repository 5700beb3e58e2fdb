package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDate = errors.New("invalid date")

	// accepted date string layouts, tried in order
	dateLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// ParseDate converts one of the accepted date representations into a UTC time.Time:
//   - time.Time or *time.Time
//   - a string in RFC 3339 form, a local "2006-01-02T15:04[:05]" datetime or a "2006-01-02" date
//   - an integer number of milliseconds since the Unix epoch
//   - a timestamp object {"_seconds", "_nanoseconds"} or {"seconds", "nanos"}
//   - any of the above JSON encoded, as a json.RawMessage or []byte
//
// Anything else fails with ErrInvalidDate.
func ParseDate(input interface{}) (time.Time, error) {
	switch v := input.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrInvalidDate
		}
		return v.UTC().Truncate(time.Millisecond), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, ErrInvalidDate
		}
		return ParseDate(*v)
	case string:
		return parseDateString(v)
	case int64:
		return time.Unix(0, v*int64(time.Millisecond)).UTC().Truncate(time.Millisecond), nil
	case int:
		return ParseDate(int64(v))
	case json.RawMessage:
		return parseDateJSON(v)
	case []byte:
		return parseDateJSON(v)
	}
	return time.Time{}, ErrInvalidDate
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

type timestampObject struct {
	Seconds     *int64 `json:"_seconds"`
	Nanoseconds int64  `json:"_nanoseconds"`
	AltSeconds  *int64 `json:"seconds"`
	AltNanos    int64  `json:"nanos"`
}

func parseDateJSON(b []byte) (time.Time, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return time.Time{}, ErrInvalidDate
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return parseDateString(s)
	case '{':
		var ts timestampObject
		if err := json.Unmarshal(b, &ts); err != nil {
			return time.Time{}, ErrInvalidDate
		}
		switch {
		case ts.Seconds != nil:
			return time.Unix(*ts.Seconds, ts.Nanoseconds).UTC().Truncate(time.Millisecond), nil
		case ts.AltSeconds != nil:
			return time.Unix(*ts.AltSeconds, ts.AltNanos).UTC().Truncate(time.Millisecond), nil
		}
		return time.Time{}, ErrInvalidDate
	}
	var millis int64
	if err := json.Unmarshal(b, &millis); err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return ParseDate(millis)
}

// Date is a leniently decoded, optional date field of a request payload.
// Decoding never fails: parse errors are kept and reported by the payload's validation.
type Date struct {
	Time  time.Time
	set   bool
	valid bool
}

// NewDate returns a set and valid Date.
func NewDate(t time.Time) Date {
	return Date{Time: t.UTC(), set: true, valid: true}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	*d = Date{}
	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	}
	d.set = true
	t, err := ParseDate(json.RawMessage(b))
	if err == nil {
		d.Time = t
		d.valid = true
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time)
}

// IsSet tells whether a non-null value was supplied.
func (d Date) IsSet() bool { return d.set }

// IsValid tells whether the supplied value was parsed.
func (d Date) IsValid() bool { return d.valid }

// Ptr returns the parsed time, or nil when no valid value was supplied.
func (d Date) Ptr() *time.Time {
	if !d.valid {
		return nil
	}
	t := d.Time
	return &t
}

// Now returns the current time truncated to milliseconds, the precision every store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
