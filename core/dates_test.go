package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	local := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*60*60))

	tests := []struct {
		name    string
		input   interface{}
		want    time.Time
		wantErr bool
	}{
		{name: "time", input: local, want: want},
		{name: "time pointer", input: &local, want: want},
		{name: "nil time pointer", input: (*time.Time)(nil), wantErr: true},
		{name: "zero time", input: time.Time{}, wantErr: true},
		{name: "rfc3339", input: "2024-03-01T09:30:00-03:00", want: want},
		{name: "rfc3339 nano", input: "2024-03-01T12:30:00.000Z", want: want},
		{name: "local datetime", input: "2024-03-01T12:30", want: want},
		{name: "local datetime with seconds", input: "2024-03-01 12:30:00", want: want},
		{name: "date only", input: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "padded", input: "  2024-03-01  ", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "millis", input: want.UnixNano() / int64(time.Millisecond), want: want},
		{name: "int millis", input: int(want.UnixNano() / int64(time.Millisecond)), want: want},
		{name: "json string", input: json.RawMessage(`"2024-03-01T12:30:00Z"`), want: want},
		{name: "json millis", input: []byte(`1709296200000`), want: want},
		{name: "json timestamp", input: json.RawMessage(`{"_seconds": 1709296200, "_nanoseconds": 0}`), want: want},
		{name: "json alt timestamp", input: json.RawMessage(`{"seconds": 1709296200, "nanos": 0}`), want: want},
		{name: "empty string", input: "", wantErr: true},
		{name: "garbage", input: "lol", wantErr: true},
		{name: "out of range", input: "2024-13-01", wantErr: true},
		{name: "json object without seconds", input: json.RawMessage(`{"lol": 1}`), wantErr: true},
		{name: "json bool", input: json.RawMessage(`true`), wantErr: true},
		{name: "unsupported type", input: 4.2, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err != ErrInvalidDate {
					t.Errorf("ParseDate() error = %v, want ErrInvalidDate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate() unexpected error = %v", err)
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantSet   bool
		wantValid bool
	}{
		{name: "absent", data: `{}`},
		{name: "null", data: `{"d": null}`},
		{name: "valid", data: `{"d": "2024-03-01"}`, wantSet: true, wantValid: true},
		{name: "invalid", data: `{"d": "lol"}`, wantSet: true},
		{name: "wrong type", data: `{"d": true}`, wantSet: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct{ D Date }
			if err := json.Unmarshal([]byte(tt.data), &v); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if v.D.IsSet() != tt.wantSet || v.D.IsValid() != tt.wantValid {
				t.Errorf("Date set = %v, valid = %v; want %v, %v", v.D.IsSet(), v.D.IsValid(), tt.wantSet, tt.wantValid)
			}
			if (v.D.Ptr() != nil) != tt.wantValid {
				t.Errorf("Date.Ptr() = %v", v.D.Ptr())
			}
		})
	}
}
