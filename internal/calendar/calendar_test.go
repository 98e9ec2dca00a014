package calendar

import (
	"reflect"
	"testing"
	"time"
)

type item struct {
	name    string
	startAt *time.Time
	endAt   *time.Time
}

func (i item) SpanStart() *time.Time { return i.startAt }
func (i item) SpanEnd() *time.Time   { return i.endAt }

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
	return &t
}

func TestMonthGridSize(t *testing.T) {
	anchors := []time.Time{
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),  // leap February
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),   // non-leap February
		time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),   // month starting on Sunday
		time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),   // month starting on Monday
	}

	for _, anchor := range anchors {
		grid := MonthGrid(anchor)

		if len(grid) != GridCells {
			t.Errorf("MonthGrid(%v) has %d cells, want %d", anchor, len(grid), GridCells)
		}

		if grid[0].Weekday() != time.Monday {
			t.Errorf("MonthGrid(%v) starts on %v, want Monday", anchor, grid[0].Weekday())
		}

		for i := 1; i < len(grid); i++ {
			if !grid[i].Equal(grid[i-1].AddDate(0, 0, 1)) {
				t.Fatalf("MonthGrid(%v) is not consecutive at index %d", anchor, i)
			}
		}
	}
}

func TestMonthGridCoversMonth(t *testing.T) {
	anchor := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	grid := MonthGrid(anchor)

	seen := map[int]int{}
	for _, day := range grid {
		if day.Month() == anchor.Month() {
			seen[day.Day()]++
		}
	}

	for day := 1; day <= 28; day++ {
		if seen[day] != 1 {
			t.Errorf("day %d of the month appears %d times, want 1", day, seen[day])
		}
	}
}

func TestMonthGridLeapFebruary(t *testing.T) {
	grid := MonthGrid(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))

	wantFirst := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	wantLast := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	if !grid[0].Equal(wantFirst) {
		t.Errorf("grid[0] = %v, want %v", grid[0], wantFirst)
	}
	if !grid[len(grid)-1].Equal(wantLast) {
		t.Errorf("grid[41] = %v, want %v", grid[len(grid)-1], wantLast)
	}
}

func TestMonthGridIgnoresDayAndTime(t *testing.T) {
	a := MonthGrid(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	b := MonthGrid(time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC))

	if !reflect.DeepEqual(a, b) {
		t.Error("grids for the same month/year differ by anchor day")
	}
}

func TestBucketByDay(t *testing.T) {
	days := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	spanning := item{name: "spanning", startAt: at(2024, 3, 4), endAt: at(2024, 3, 6)}
	single := item{name: "single", startAt: at(2024, 3, 5)}
	endOnly := item{name: "end-only", endAt: at(2024, 3, 7)}
	dateless := item{name: "dateless"}

	buckets := BucketByDay([]item{spanning, single, endOnly, dateless}, days)

	tests := []struct {
		day  string
		want []string
	}{
		{day: "2024-03-03", want: nil},
		{day: "2024-03-04", want: []string{"spanning"}},
		{day: "2024-03-05", want: []string{"spanning", "single"}},
		{day: "2024-03-06", want: []string{"spanning"}},
		{day: "2024-03-07", want: []string{"end-only"}},
		{day: "2024-03-08", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			var got []string
			for _, it := range buckets[tt.day] {
				got = append(got, it.name)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("bucket[%s] = %v, want %v", tt.day, got, tt.want)
			}
		})
	}

	for key, bucket := range buckets {
		for _, it := range bucket {
			if it.name == "dateless" {
				t.Errorf("dateless item leaked into bucket %s", key)
			}
		}
	}
}

func TestBucketByDayIdempotent(t *testing.T) {
	days := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	items := []item{
		{name: "a", startAt: at(2024, 3, 4), endAt: at(2024, 3, 6)},
		{name: "b", startAt: at(2024, 3, 10)},
	}

	first := BucketByDay(items, days)
	second := BucketByDay(items, days)

	if !reflect.DeepEqual(first, second) {
		t.Error("BucketByDay is not deterministic over identical inputs")
	}
}

func TestInWindow(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		it   item
		days int
		want bool
	}{
		{
			name: "spans exactly the window",
			it:   item{startAt: at(2024, 3, 10), endAt: at(2024, 3, 16)},
			want: true,
		},
		{
			name: "starts the day after the window",
			it:   item{startAt: at(2024, 3, 17), endAt: at(2024, 3, 20)},
			want: false,
		},
		{
			name: "ends before the window",
			it:   item{startAt: at(2024, 3, 1), endAt: at(2024, 3, 9)},
			want: false,
		},
		{
			name: "overlaps the window edge",
			it:   item{startAt: at(2024, 3, 5), endAt: at(2024, 3, 10)},
			want: true,
		},
		{
			name: "single instant inside",
			it:   item{startAt: at(2024, 3, 12)},
			want: true,
		},
		{
			name: "single instant outside",
			it:   item{endAt: at(2024, 3, 20)},
			want: false,
		},
		{
			name: "no timestamps",
			it:   item{},
			want: false,
		},
		{
			name: "wider window catches later item",
			it:   item{startAt: at(2024, 3, 20)},
			days: 14,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InWindow(tt.it, today, tt.days); got != tt.want {
				t.Errorf("InWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}
