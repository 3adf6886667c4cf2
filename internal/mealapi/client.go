// Package mealapi is a client for the diet backend's meal-log and
// calorie-goal endpoints.
package mealapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/source"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "kburn/1.0"
)

var (
	// ErrUnauthorized indicates the backend rejected the request.
	ErrUnauthorized = errors.New("mealapi: unauthorized")
	// ErrNotFound indicates the user or meal does not exist.
	ErrNotFound = errors.New("mealapi: not found")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("mealapi: rate limited")
	// ErrMissingName is returned when a meal is saved without a name.
	ErrMissingName = errors.New("mealapi: meal name is required")
)

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("mealapi: %s %s: unexpected status %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to the backend on behalf of one user.
type Client struct {
	baseURL string
	userID  string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for userID against baseURL.
// Returns nil if either is empty or baseURL is not an http(s) URL.
func NewClient(baseURL, userID string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	userID = strings.TrimSpace(userID)
	if baseURL == "" || userID == "" {
		return nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		userID:  userID,
		timeout: timeout,
		http:    &http.Client{},
	}
}

// UserID returns the user the client acts for.
func (c *Client) UserID() string { return c.userID }

// MealInput is the body of a create or update request.
type MealInput struct {
	FoodsConsumed string  `json:"foodsConsumed"`
	Calories      int     `json:"calories"`
	Remarks       *string `json:"remarks"`
	TimeConsumed  string  `json:"timeConsumed"`
}

// NewMealInput builds a request body. Blank remarks are sent as null and
// negative calories as 0.
func NewMealInput(name string, kcal int, remarks string, at localtime.Instant) (MealInput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MealInput{}, ErrMissingName
	}
	in := MealInput{
		FoodsConsumed: name,
		Calories:      max(kcal, 0),
		TimeConsumed:  localtime.Format(at),
	}
	if r := strings.TrimSpace(remarks); r != "" {
		in.Remarks = &r
	}
	return in, nil
}

// FetchMeals returns every meal log of the user.
func (c *Client) FetchMeals(ctx context.Context) ([]source.RawMeal, error) {
	body, err := c.do(ctx, http.MethodGet, c.mealsPath(), nil)
	if err != nil {
		return nil, err
	}

	var meals []source.RawMeal
	if err := json.Unmarshal(body, &meals); err != nil {
		return nil, fmt.Errorf("mealapi: parsing meal logs: %w", err)
	}
	return meals, nil
}

type goalResponse struct {
	DailyTarget *float64 `json:"dailyTarget"`
}

// FetchGoal returns today's calorie target rounded to a whole number, or 0
// when the backend has none.
func (c *Client) FetchGoal(ctx context.Context) (int, error) {
	path := "/api/calorie-goal/today?firebaseId=" + url.QueryEscape(c.userID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}

	var g goalResponse
	if err := json.Unmarshal(body, &g); err != nil {
		return 0, fmt.Errorf("mealapi: parsing calorie goal: %w", err)
	}
	if g.DailyTarget == nil || math.IsNaN(*g.DailyTarget) || *g.DailyTarget < 0 {
		return 0, nil
	}
	return int(math.Round(*g.DailyTarget)), nil
}

// CreateMeal logs a new meal.
func (c *Client) CreateMeal(ctx context.Context, in MealInput) error {
	_, err := c.do(ctx, http.MethodPost, c.mealsPath(), in)
	return err
}

// UpdateMeal replaces an existing meal.
func (c *Client) UpdateMeal(ctx context.Context, id string, in MealInput) error {
	_, err := c.do(ctx, http.MethodPut, "/api/meallogs/"+url.PathEscape(id), in)
	return err
}

// DeleteMeal removes a meal.
func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/meallogs/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) mealsPath() string {
	return "/api/meallogs/by-firebase/" + url.PathEscape(c.userID)
}

// do performs a request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("mealapi: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("mealapi: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mealapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("mealapi: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(truncate(string(body), 200)),
		}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
