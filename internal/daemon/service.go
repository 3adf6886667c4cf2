// Package daemon provides the long-running background intake monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/pipeline"
	"github.com/theirongolddev/kburn/internal/report"
)

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventIntakeDelta = "intake_delta"
	EventGoalReached = "goal_reached"
	EventDayRollover = "day_rollover"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Load         pipeline.LoadFunc
	Goal         report.GoalFunc
	Source       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *slog.Logger
	// Now defaults to localtime.Now.
	Now func() localtime.Instant
}

// Snapshot is a compact intake state for status/event payloads.
type Snapshot struct {
	At          time.Time     `json:"at"`
	Date        calendar.Date `json:"date"`
	Entries     int           `json:"entries"`
	Consumed    int           `json:"consumed"`
	Goal        int           `json:"goal"`
	Percent     int           `json:"percent"`
	Remaining   int           `json:"remaining"`
	Over        bool          `json:"over"`
	WeekTotal   int           `json:"week_total"`
	WeekAverage float64       `json:"week_average"`
	MonthTotal  int           `json:"month_total"`
	Stale       bool          `json:"stale"`
}

// Delta captures snapshot deltas between polls on the same day.
type Delta struct {
	Entries  int `json:"entries"`
	Consumed int `json:"consumed"`
	Goal     int `json:"goal"`
}

func (d Delta) isZero() bool {
	return d.Entries == 0 &&
		d.Consumed == 0 &&
		d.Goal == 0
}

// Event is emitted whenever the intake snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	LastSyncAt      time.Time `json:"last_sync_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Source          string    `json:"source"`
	Today           Snapshot  `json:"today"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	lastSyncAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	entries     []model.MealLogEntry
	backendGoal int
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Now == nil {
		cfg.Now = localtime.Now
	}
	if cfg.Goal == nil {
		cfg.Goal = func(backend int, _ calendar.Date) int {
			if backend > 0 {
				return backend
			}
			return model.DefaultGoal
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		log:       logger.With("component", "daemon"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the daemon's HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.HandleFunc("/v1/report/daily", s.handleDaily)
	mux.HandleFunc("/v1/report/weekly", s.handleWeekly)
	mux.HandleFunc("/v1/report/monthly", s.handleMonthly)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval, "source", s.cfg.Source)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.log.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	start := time.Now()
	result, err := s.cfg.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Error("poll failed", "err", err)
		return
	}
	if result.Stale {
		s.log.Warn("backend unreachable, serving cached meals", "err", result.FetchErr, "synced_at", result.SyncedAt)
	}

	now := s.cfg.Now()
	snap, err := s.buildSnapshot(result, now)
	if err != nil {
		s.log.Error("building snapshot", "err", err)
		return
	}

	var events []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.entries = result.Entries
	s.backendGoal = result.Goal
	s.lastPollAt = snap.At
	s.lastSyncAt = result.SyncedAt
	s.pollCount++
	s.lastError = ""

	switch {
	case !prevExists:
		events = append(events, Event{Type: EventSnapshot, Snapshot: snap})
	case prev.Date != snap.Date:
		events = append(events, Event{Type: EventDayRollover, Snapshot: snap})
	default:
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			events = append(events, Event{Type: EventIntakeDelta, Snapshot: snap, Delta: delta})
		}
		if !prev.Over && snap.Over {
			events = append(events, Event{Type: EventGoalReached, Snapshot: snap, Delta: delta})
		}
	}
	for i := range events {
		s.nextEventID++
		events[i].ID = s.nextEventID
		events[i].Timestamp = snap.At
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.publishEvent(ev)
	}

	s.log.Debug("poll complete",
		"entries", len(result.Entries),
		"consumed", snap.Consumed,
		"goal", snap.Goal,
		"events", len(events),
		"took", time.Since(start),
	)
}

func (s *Service) buildSnapshot(result *pipeline.LoadResult, now localtime.Instant) (Snapshot, error) {
	today := calendar.DateOf(now)
	goal := s.cfg.Goal(result.Goal, today)

	daily, err := report.DailyView(result.Entries, calendar.NewDayCursor(today), goal)
	if err != nil {
		return Snapshot{}, err
	}
	week, err := report.WeeklyView(result.Entries, calendar.NewWeekCursor(today), goal)
	if err != nil {
		return Snapshot{}, err
	}
	month, err := report.MonthlyView(result.Entries, calendar.NewMonthCursor(today.Year, today.Month), goal)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		At:          time.Now(),
		Date:        today,
		Entries:     len(daily.Entries),
		Consumed:    daily.Consumed,
		Goal:        goal,
		Percent:     daily.ProgressPercent,
		Remaining:   daily.Progress.Remaining,
		Over:        daily.Progress.Over,
		WeekTotal:   week.Aggregate.Total,
		WeekAverage: week.Aggregate.Average,
		MonthTotal:  month.Aggregate.Total,
		Stale:       result.Stale,
	}, nil
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Entries:  curr.Entries - prev.Entries,
		Consumed: curr.Consumed - prev.Consumed,
		Goal:     curr.Goal - prev.Goal,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		LastSyncAt:      s.lastSyncAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Source:          s.cfg.Source,
		Today:           s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Today,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
