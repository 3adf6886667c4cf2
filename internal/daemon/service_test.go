package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/pipeline"
	"github.com/theirongolddev/kburn/internal/report"
)

var testNow = localtime.Instant{Year: 2024, Month: time.March, Day: 10, Hour: 12}

func entry(id, ts string, kcal int) model.MealLogEntry {
	return model.MealLogEntry{
		ID:        id,
		Name:      "meal " + id,
		Calories:  kcal,
		Timestamp: localtime.MustParse(ts),
	}
}

// feed is a LoadFunc whose result can be swapped between polls.
type feed struct {
	result *pipeline.LoadResult
	err    error
}

func (f *feed) load(context.Context) (*pipeline.LoadResult, error) {
	return f.result, f.err
}

func newTestService(f *feed, now *localtime.Instant) *Service {
	return New(Config{
		Load:         f.load,
		Source:       "test",
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:          func() localtime.Instant { return *now },
	})
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Entries: 2, Consumed: 900, Goal: 2000}
	curr := Snapshot{Entries: 3, Consumed: 1450, Goal: 2000}

	delta := diffSnapshots(prev, curr)
	if delta.Entries != 1 {
		t.Fatalf("Entries delta = %d, want 1", delta.Entries)
	}
	if delta.Consumed != 550 {
		t.Fatalf("Consumed delta = %d, want 550", delta.Consumed)
	}
	if delta.Goal != 0 {
		t.Fatalf("Goal delta = %d, want 0", delta.Goal)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should give a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func eventTypes(s *Service) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Type
	}
	return out
}

func TestPollOnce_Events(t *testing.T) {
	now := testNow
	f := &feed{result: &pipeline.LoadResult{
		Goal: 1000,
		Entries: []model.MealLogEntry{
			entry("1", "2024-03-10T08:00:00", 600),
			entry("old", "2024-03-09T20:00:00", 900),
		},
	}}
	s := newTestService(f, &now)
	ctx := context.Background()

	s.pollOnce(ctx)
	s.pollOnce(ctx) // unchanged: no event

	f.result = &pipeline.LoadResult{
		Goal: 1000,
		Entries: append(f.result.Entries,
			entry("2", "2024-03-10T11:30:00", 500),
		),
	}
	s.pollOnce(ctx)

	now = localtime.Instant{Year: 2024, Month: time.March, Day: 11, Hour: 0, Minute: 1}
	s.pollOnce(ctx)

	got := eventTypes(s)
	want := []string{EventSnapshot, EventIntakeDelta, EventGoalReached, EventDayRollover}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}

	st := s.snapshotStatus()
	if st.PollCount != 4 {
		t.Errorf("PollCount = %d, want 4", st.PollCount)
	}
	if st.Today.Date != (calendar.Date{Year: 2024, Month: time.March, Day: 11}) || st.Today.Consumed != 0 {
		t.Errorf("Today = %+v", st.Today)
	}
	if st.Today.WeekTotal != 0 {
		t.Errorf("Monday's week total = %d, want 0", st.Today.WeekTotal)
	}
}

func TestPollOnce_SnapshotUsesGoalFunc(t *testing.T) {
	now := testNow
	f := &feed{result: &pipeline.LoadResult{
		Entries: []model.MealLogEntry{entry("1", "2024-03-10T08:00:00", 750)},
	}}
	s := newTestService(f, &now)
	s.cfg.Goal = func(backend int, _ calendar.Date) int {
		if backend > 0 {
			return backend
		}
		return 1500
	}

	s.pollOnce(context.Background())
	snap := s.snapshotStatus().Today
	if snap.Goal != 1500 || snap.Percent != 50 || snap.Remaining != 750 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.WeekTotal != 750 || snap.MonthTotal != 750 {
		t.Errorf("period totals = %d / %d", snap.WeekTotal, snap.MonthTotal)
	}
}

func TestPollOnce_ErrorKeepsLastSnapshot(t *testing.T) {
	now := testNow
	f := &feed{result: &pipeline.LoadResult{
		Goal:    2000,
		Entries: []model.MealLogEntry{entry("1", "2024-03-10T08:00:00", 400)},
	}}
	s := newTestService(f, &now)
	s.pollOnce(context.Background())

	f.err = errors.New("connection refused")
	s.pollOnce(context.Background())

	st := s.snapshotStatus()
	if st.LastError != "connection refused" {
		t.Errorf("LastError = %q", st.LastError)
	}
	if st.Today.Consumed != 400 {
		t.Errorf("snapshot lost after error: %+v", st.Today)
	}
}

func TestHandlers(t *testing.T) {
	now := testNow
	f := &feed{result: &pipeline.LoadResult{
		Goal: 2000,
		Entries: []model.MealLogEntry{
			entry("1", "2024-03-10T08:00:00", 500),
			entry("2", "2024-03-04T13:00:00", 700),
			entry("3", "2024-02-29T19:00:00", 300),
		},
	}}
	s := newTestService(f, &now)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	// Before the first poll reports are unavailable.
	resp, err := http.Get(srv.URL + "/v1/report/daily")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("pre-poll status = %d", resp.StatusCode)
	}

	s.pollOnce(context.Background())

	var daily report.Daily
	getJSON(t, srv.URL+"/v1/report/daily?date=2024-03-10", &daily)
	if daily.Consumed != 500 || daily.ProgressPercent != 25 || len(daily.Entries) != 1 {
		t.Errorf("daily = %+v", daily)
	}

	var week report.Period
	getJSON(t, srv.URL+"/v1/report/weekly?date=2024-03-06", &week)
	if week.Aggregate.Total != 1200 || week.Key != "2024-W10" || len(week.Days) != 7 {
		t.Errorf("week = %+v", week)
	}

	var month report.Period
	getJSON(t, srv.URL+"/v1/report/monthly?month=2024-02", &month)
	if month.Aggregate.Total != 300 || len(month.Days) != 29 {
		t.Errorf("month total = %d, days = %d", month.Aggregate.Total, len(month.Days))
	}

	var st Status
	getJSON(t, srv.URL+"/v1/status", &st)
	if st.Source != "test" || st.Today.Consumed != 500 {
		t.Errorf("status = %+v", st)
	}

	for _, path := range []string{"/v1/report/daily?date=10-03-2024", "/v1/report/monthly?month=2024-13"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestHandlers_WeeklyGoalFromMonday(t *testing.T) {
	now := testNow
	f := &feed{result: &pipeline.LoadResult{
		Entries: []model.MealLogEntry{
			entry("1", "2024-03-04T08:00:00", 1800),
			entry("2", "2024-03-08T13:00:00", 1700),
		},
	}}
	s := New(Config{
		Load: f.load,
		Goal: func(_ int, d calendar.Date) int {
			if d.Before(calendar.Date{Year: 2024, Month: time.March, Day: 6}) {
				return 2000
			}
			return 1500
		},
		Source:       "test",
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:          func() localtime.Instant { return now },
	})
	s.pollOnce(context.Background())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for _, date := range []string{"2024-03-04", "2024-03-08", "2024-03-10"} {
		var week report.Period
		getJSON(t, srv.URL+"/v1/report/weekly?date="+date, &week)
		if week.Goal != 2000 || week.ChartMax != 2000 || week.DaysOverGoal != 0 {
			t.Errorf("date=%s: goal=%d chart_max=%d over=%d, want 2000/2000/0",
				date, week.Goal, week.ChartMax, week.DaysOverGoal)
		}
	}
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
}
