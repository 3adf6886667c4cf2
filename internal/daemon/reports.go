package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/report"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// current returns the last loaded entries and backend goal. The slice is
// replaced on each poll and never mutated, so callers may read it freely.
func (s *Service) current() ([]model.MealLogEntry, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries, s.backendGoal, s.hasSnapshot
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to today.
func (s *Service) dateParam(r *http.Request) (calendar.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return calendar.DateOf(s.cfg.Now()), nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return d, nil
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month.
func (s *Service) monthParam(r *http.Request) (calendar.Date, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		d := calendar.DateOf(s.cfg.Now())
		return calendar.Date{Year: d.Year, Month: d.Month, Day: 1}, nil
	}
	d, err := calendar.ParseDate(raw + "-01")
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid month %q: want YYYY-MM", raw)
	}
	return d, nil
}

func (s *Service) reportInput(w http.ResponseWriter) ([]model.MealLogEntry, int, bool) {
	entries, goal, ok := s.current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: "no data loaded yet"})
	}
	return entries, goal, ok
}

func (s *Service) handleDaily(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	entries, backend, ok := s.reportInput(w)
	if !ok {
		return
	}
	v, err := report.DailyView(entries, calendar.NewDayCursor(d), s.cfg.Goal(backend, d))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Service) handleWeekly(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	entries, backend, ok := s.reportInput(w)
	if !ok {
		return
	}
	c := calendar.NewWeekCursor(d)
	v, err := report.WeeklyView(entries, c, s.cfg.Goal(backend, c.Anchor()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Service) handleMonthly(w http.ResponseWriter, r *http.Request) {
	d, err := s.monthParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	entries, backend, ok := s.reportInput(w)
	if !ok {
		return
	}
	v, err := report.MonthlyView(entries, calendar.NewMonthCursor(d.Year, d.Month), s.cfg.Goal(backend, d))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}
