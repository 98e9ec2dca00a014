package availability

import (
	"testing"
	"time"
)

func ts(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}

	return &t
}

func TestResolve(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    *Availability
		want Status
	}{
		{name: "nil availability", a: nil, want: StatusActive},
		{name: "empty availability", a: &Availability{}, want: StatusActive},
		{
			name: "closed wins over future start",
			a:    &Availability{Status: StatusClosed, StartAt: ts("2099-01-01T00:00:00Z")},
			want: StatusClosed,
		},
		{
			name: "closed wins over live window",
			a:    &Availability{Status: StatusClosed, StartAt: ts("2024-03-01T00:00:00Z"), EndAt: ts("2024-03-31T00:00:00Z")},
			want: StatusClosed,
		},
		{
			name: "scheduled wins over past start",
			a:    &Availability{Status: StatusScheduled, StartAt: ts("2024-01-01T00:00:00Z")},
			want: StatusScheduled,
		},
		{
			name: "scheduled wins over past end",
			a:    &Availability{Status: StatusScheduled, EndAt: ts("2024-01-01T00:00:00Z")},
			want: StatusScheduled,
		},
		{
			name: "active with future start is scheduled",
			a:    &Availability{Status: StatusActive, StartAt: ts("2024-03-11T00:00:00Z")},
			want: StatusScheduled,
		},
		{
			name: "active with past end is closed",
			a:    &Availability{Status: StatusActive, EndAt: ts("2024-03-09T00:00:00Z")},
			want: StatusClosed,
		},
		{
			name: "active inside window stays active",
			a:    &Availability{Status: StatusActive, StartAt: ts("2024-03-01T00:00:00Z"), EndAt: ts("2024-03-31T00:00:00Z")},
			want: StatusActive,
		},
		{
			name: "active with no dates stays active",
			a:    &Availability{Status: StatusActive},
			want: StatusActive,
		},
		{
			name: "no status with future start is scheduled",
			a:    &Availability{StartAt: ts("2024-03-15T00:00:00Z")},
			want: StatusScheduled,
		},
		{
			name: "no status with past start falls through to scheduled",
			a:    &Availability{StartAt: ts("2024-03-01T00:00:00Z")},
			want: StatusScheduled,
		},
		{
			name: "no status with future end is scheduled",
			a:    &Availability{EndAt: ts("2024-03-20T00:00:00Z")},
			want: StatusScheduled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.a, now); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Mirrors the badge matrix the screens rely on.
func TestResolveScenario(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    *Availability
		want Status
	}{
		{
			name: "expired window reports closed",
			a:    &Availability{Status: StatusActive, StartAt: ts("2024-03-01T00:00:00Z"), EndAt: ts("2024-03-05T00:00:00Z")},
			want: StatusClosed,
		},
		{
			name: "future start reports scheduled",
			a:    &Availability{Status: StatusActive, StartAt: ts("2024-03-15T00:00:00Z")},
			want: StatusScheduled,
		},
		{
			name: "no dates reports active",
			a:    &Availability{Status: StatusActive},
			want: StatusActive,
		},
		{
			name: "explicit close beats future start",
			a:    &Availability{Status: StatusClosed, StartAt: ts("2099-01-01T00:00:00Z")},
			want: StatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.a, now); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveEvent(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    *Availability
		want Status
	}{
		{
			name: "past end reports expired, not closed",
			a:    &Availability{Status: StatusActive, EndAt: ts("2024-03-09T00:00:00Z")},
			want: StatusExpired,
		},
		{
			name: "hidden beats past end",
			a:    &Availability{Status: StatusHidden, EndAt: ts("2024-03-09T00:00:00Z")},
			want: StatusHidden,
		},
		{
			name: "closed beats past end",
			a:    &Availability{Status: StatusClosed, EndAt: ts("2024-03-09T00:00:00Z")},
			want: StatusClosed,
		},
		{
			name: "future start is scheduled",
			a:    &Availability{Status: StatusActive, StartAt: ts("2024-03-15T00:00:00Z")},
			want: StatusScheduled,
		},
		{
			name: "live window is active",
			a:    &Availability{Status: StatusActive, StartAt: ts("2024-03-01T00:00:00Z"), EndAt: ts("2024-03-31T00:00:00Z")},
			want: StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEvent(tt.a, now); got != tt.want {
				t.Errorf("ResolveEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "rfc3339", raw: "2024-03-10T12:00:00Z", want: true},
		{name: "date only", raw: "2024-03-10", want: true},
		{name: "no timezone", raw: "2024-03-10T12:00:00", want: true},
		{name: "empty", raw: "", want: false},
		{name: "garbage", raw: "next tuesday", want: false},
		{name: "whitespace", raw: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInstant(tt.raw)
			if (got != nil) != tt.want {
				t.Errorf("ParseInstant(%q) = %v, want parsed=%v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{raw: "active", want: StatusActive},
		{raw: "Active", want: StatusActive},
		{raw: " closed ", want: StatusClosed},
		{raw: "scheduled", want: StatusScheduled},
		{raw: "hidden", want: StatusHidden},
		{raw: "bogus", want: ""},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
