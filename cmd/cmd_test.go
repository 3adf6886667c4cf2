package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/config"
	"github.com/theirongolddev/kburn/internal/daemon"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testExport = `{"mealLogId":1,"foodsConsumed":"Oats","calories":500,"timeConsumed":"2024-03-04T08:00:00"}
{"mealLogId":2,"foodsConsumed":"Egg sandwich","calories":450,"timeConsumed":"2024-03-06T09:30:00","protein":20}
{"mealLogId":3,"foodsConsumed":"Curry","calories":750,"timeConsumed":"2024-03-06T19:00:00","remarks":"half portion"}
{"mealLogId":4,"foodsConsumed":"Pizza","calories":2400,"timeConsumed":"2024-02-28T20:00:00"}
`

// setupEnv isolates config, cache and KBURN_* overrides from the host.
func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(config.EnvUserID, "")
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvGoal, "")
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meals.jsonl")
	if err := os.WriteFile(path, []byte(testExport), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// resetFlags puts every flag back to its default; rootCmd is shared across
// tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("kburn %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestDailyFromFile(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "daily", "-f", path, "--date", "2024-03-06", "--goal", "2000")
	assertContains(t, out,
		"DAILY  06 Mar 2024 (Wed)",
		"1,200 / 2,000 kcal  60%",
		"800 kcal remaining",
		"Egg sandwich",
		"half portion",
		"62.5%",
		"By hour",
	)
}

func TestRootRunsDaily(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "-q", "-f", path, "-d", "2024-03-06", "-g", "1000")
	assertContains(t, out, "1,200 / 1,000 kcal  100%", "Over goal by 200 kcal")
}

func TestDailyUsesConfigGoal(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	cfg := config.DefaultConfig()
	cfg.Goal.Daily = 1500
	cfg.Goal.History = []config.GoalChange{{From: "2024-03-05", Kcal: 2400}}
	if err := config.Save(cfg); err != nil {
		t.Fatal(err)
	}

	out := mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-04")
	assertContains(t, out, "500 / 1,500 kcal")

	out = mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-06")
	assertContains(t, out, "1,200 / 2,400 kcal  50%")

	t.Setenv(config.EnvGoal, "1200")
	out = mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-06")
	assertContains(t, out, "1,200 / 1,200 kcal  100%")
}

func TestDailyEmptyDay(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-05", "--goal", "2000")
	assertContains(t, out, "0 / 2,000 kcal  0%", "No meals logged.")
}

func TestFoodFilter(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-06", "--goal", "2000", "--food", "EGG")
	assertContains(t, out, "450 / 2,000 kcal")
	if strings.Contains(out, "Curry") {
		t.Error("--food should hide other meals")
	}
}

func TestWeeklyReport(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "weekly", "-q", "-f", path, "--date", "2024-03-06", "--goal", "2000")
	assertContains(t, out,
		"WEEKLY  04 Mar – 10 Mar 2024",
		"1,700 kcal",
		"243 kcal",
		"(2 of 7 days logged)",
		"0 of 7 days",
		"Mon 04",
		"Sun 10",
	)
}

func TestMonthlyReport(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "monthly", "-q", "-f", path, "--date", "2024-02-10", "--goal", "2000")
	assertContains(t, out,
		"MONTHLY  Feb 2024",
		"2,400 kcal",
		"1 of 29 days",
		"29 Thu",
	)
}

func TestInvalidDate(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	if _, err := execute(t, "daily", "-f", path, "--date", "2024-13-01"); err == nil {
		t.Fatal("expected an error for month 13")
	}
}

func TestNoUserID(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "daily", "--date", "2024-03-06")
	if !errors.Is(err, errNoUser) {
		t.Fatalf("err = %v, want errNoUser", err)
	}
}

func TestLogEditDeleteFile(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "log", "Green", "apple", "--kcal", "95", "--at", "15:00", "--date", "2024-03-06", "-f", path)
	assertContains(t, out, "Logged Green apple (95 kcal) at 2024-03-06T15:00:00")
	idx := strings.LastIndex(out, "id ")
	if idx < 0 {
		t.Fatalf("no id in %q", out)
	}
	id := strings.TrimSpace(out[idx+len("id "):])

	out = mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-06", "--goal", "2000")
	assertContains(t, out, "1,295 / 2,000 kcal", "Green apple")

	mustExecute(t, "edit", id, "Apple", "pie", "--kcal", "300", "--at", "2024-03-06T16:00:00", "-f", path)
	out = mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-06", "--goal", "2000")
	assertContains(t, out, "1,500 / 2,000 kcal", "Apple pie")

	out = mustExecute(t, "delete", id, "-f", path)
	assertContains(t, out, "Deleted "+id)

	out = mustExecute(t, "daily", "-q", "-f", path, "--date", "2024-03-06", "--goal", "2000")
	assertContains(t, out, "1,200 / 2,000 kcal")
}

func TestLogValidation(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	if _, err := execute(t, "log", "Apple", "-f", path); err == nil {
		t.Error("log without --kcal should fail")
	}
	if _, err := execute(t, "log", " ", "--kcal", "10", "-f", path); err == nil {
		t.Error("log with a blank name should fail")
	}
	if _, err := execute(t, "log", "Apple", "--kcal", "10", "--at", "noon", "-f", path); err == nil {
		t.Error("log with a bad --at should fail")
	}
}

type recordedRequest struct {
	method, path, body string
}

func newBackend(t *testing.T, reqs *[]recordedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*reqs = append(*reqs, recordedRequest{r.Method, r.URL.Path, string(body)})

		switch {
		case r.URL.Path == "/api/calorie-goal/today":
			fmt.Fprint(w, `{"dailyTarget":1800}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/meallogs/by-firebase/42":
			fmt.Fprint(w, `[
				{"mealLogId":2,"foodsConsumed":"Egg sandwich","calories":450,"timeConsumed":"2024-03-06T09:30:00"},
				{"mealLogId":3,"foodsConsumed":"Curry","calories":750,"timeConsumed":"2024-03-06T19:00:00"}
			]`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDailyFromBackendThenStale(t *testing.T) {
	setupEnv(t)
	var reqs []recordedRequest
	srv := newBackend(t, &reqs)

	out := mustExecute(t, "daily", "-u", "42", "--api", srv.URL, "--date", "2024-03-06")
	assertContains(t, out, "1,200 / 1,800 kcal")

	// The cache answers once the backend is gone.
	srv.Close()
	out = mustExecute(t, "daily", "-u", "42", "--api", srv.URL, "--date", "2024-03-06")
	assertContains(t, out, "Backend unreachable", "1,200 / 1,800 kcal")

	out = mustExecute(t, "daily", "-q", "--offline", "-u", "42", "--api", srv.URL, "--date", "2024-03-06")
	assertContains(t, out, "1,200 / 1,800 kcal")
}

func TestLogEditDeleteBackend(t *testing.T) {
	setupEnv(t)
	var reqs []recordedRequest
	srv := newBackend(t, &reqs)

	mustExecute(t, "log", "Apple", "--kcal", "95", "--at", "2024-03-06T15:00:00", "-u", "42", "--api", srv.URL)
	mustExecute(t, "edit", "7", "Apple", "pie", "-k", "300", "--at", "2024-03-06T16:00:00", "-u", "42", "--api", srv.URL)
	mustExecute(t, "rm", "7", "-u", "42", "--api", srv.URL)

	if len(reqs) != 3 {
		t.Fatalf("requests = %d, want 3: %+v", len(reqs), reqs)
	}
	want := []struct{ method, path string }{
		{http.MethodPost, "/api/meallogs/by-firebase/42"},
		{http.MethodPut, "/api/meallogs/7"},
		{http.MethodDelete, "/api/meallogs/7"},
	}
	for i, w := range want {
		if reqs[i].method != w.method || reqs[i].path != w.path {
			t.Errorf("request %d = %s %s, want %s %s", i, reqs[i].method, reqs[i].path, w.method, w.path)
		}
	}
	assertContains(t, reqs[0].body, `"foodsConsumed":"Apple"`, `"calories":95`, `"timeConsumed":"2024-03-06T15:00:00"`)
	assertContains(t, reqs[1].body, `"foodsConsumed":"Apple pie"`, `"calories":300`)
}

func TestBackendWritesUpdateCache(t *testing.T) {
	setupEnv(t)
	var reqs []recordedRequest
	srv := newBackend(t, &reqs)
	backend := []string{"-q", "-u", "42", "--api", srv.URL}

	mustExecute(t, append([]string{"daily", "--date", "2024-03-06"}, backend...)...)
	mustExecute(t, append([]string{"rm", "3"}, backend...)...)
	mustExecute(t, append([]string{"edit", "2", "Egg", "--kcal", "300", "--at", "2024-03-06T09:30:00"}, backend...)...)

	out := mustExecute(t, append([]string{"daily", "--offline", "--date", "2024-03-06"}, backend...)...)
	assertContains(t, out, "300 / 1,800 kcal", "Egg")
	if strings.Contains(out, "Curry") {
		t.Error("deleted meal is still cached")
	}
}

func TestMealsList(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "meals", "-q", "-f", path, "--date", "2024-03-06", "--days", "3")
	assertContains(t, out, "showing 3 of 3", "Curry", "Oats")
	if strings.Index(out, "Curry") > strings.Index(out, "Oats") {
		t.Error("meals should be listed newest first")
	}
	if strings.Contains(out, "Pizza") {
		t.Error("Pizza is outside the range")
	}

	out = mustExecute(t, "meals", "-q", "-f", path, "--date", "2024-03-06", "--days", "3", "--limit", "1")
	assertContains(t, out, "showing 1 of 3")
}

func TestHourly(t *testing.T) {
	setupEnv(t)
	path := writeExport(t)

	out := mustExecute(t, "hourly", "-q", "-f", path, "--date", "2024-03-06")
	assertContains(t, out, "09:00 │    450", "Peak: 19:00 (750 kcal over 1 meal)")
}

func TestConfigCommand(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "config")
	assertContains(t, out, "using defaults", "[Goal]", "Daily:   2000 kcal", "User ID:      not configured")
}

func TestConfigShowsCachedMeals(t *testing.T) {
	setupEnv(t)
	var reqs []recordedRequest
	srv := newBackend(t, &reqs)

	mustExecute(t, "daily", "-q", "-u", "42", "--api", srv.URL, "--date", "2024-03-06")
	t.Setenv(config.EnvUserID, "42")
	out := mustExecute(t, "config")
	assertContains(t, out, "User ID:      42", "Cached meals: 2")
}

func TestDaemonStatusNotRunning(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "daemon", "status", "--pid-file", filepath.Join(t.TempDir(), "kburnd.pid"))
	assertContains(t, out, "not running")
}

func TestPrintDaemonStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	printDaemonStatus(buf, daemon.Status{
		PollCount: 3,
		Source:    "user 42",
		Today: daemon.Snapshot{
			At:          time.Now(),
			Date:        calendar.Date{Year: 2024, Month: time.March, Day: 6},
			Entries:     2,
			Consumed:    1200,
			Goal:        2000,
			Percent:     60,
			WeekTotal:   1700,
			WeekAverage: 242.9,
			MonthTotal:  1700,
		},
	})
	assertContains(t, buf.String(),
		"Last poll: pending",
		"Poll count: 3",
		"Today (2024-03-06)",
		"1,200 / 2,000 kcal",
		"Meals: 2",
		"Week: 1,700 kcal (avg 243 kcal / day)",
	)
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", ":9", "--detach=true"})
	if strings.Join(got, " ") != "daemon --addr :9" {
		t.Errorf("got %v", got)
	}
}

func TestNewDaemonLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := newDaemonLogger(buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}

	if _, err := newDaemonLogger(buf, "loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
