// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/fraudscope/internal/config"
	"github.com/tomtom215/fraudscope/internal/metrics"
)

// DefaultBaseURL is the public OMDB endpoint.
const DefaultBaseURL = "http://www.omdbapi.com"

// DefaultTimeout bounds every lookup.
const DefaultTimeout = 10 * time.Second

// maxErrorBodySize limits how much of a failed response is kept for the error message
const maxErrorBodySize = 64 * 1024

// notAvailable is OMDB's placeholder for a missing statistic.
const notAvailable = "N/A"

// ErrLookup is matched by every *LookupError.
var ErrLookup = errors.New("omdb lookup failed")

// LookupError reports a title the service could not resolve.
type LookupError struct {
	Title  string
	Year   int
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("omdb: %q (%d): %s", e.Title, e.Year, e.Reason)
}

// Is makes errors.Is(err, ErrLookup) true.
func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// Movie holds the statistics used as awards features.
type Movie struct {
	Title     string
	Year      int
	Rating    float64
	Votes     int64
	BoxOffice int64
}

// response mirrors the subset of the OMDB payload we read.
type response struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	IMDBRating string `json:"imdbRating"`
	IMDBVotes  string `json:"imdbVotes"`
	BoxOffice  string `json:"BoxOffice"`
}

// Looker resolves a title and year to movie statistics.
type Looker interface {
	Lookup(ctx context.Context, title string, year int) (*Movie, error)
}

// Client talks to the OMDB HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client from the OMDB config section. A non-positive
// RatePerSecond disables client-side limiting.
func NewClient(cfg *config.OMDBConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
	if cfg.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return c
}

// Lookup fetches one title. It performs a single GET with no retry.
func (c *Client) Lookup(ctx context.Context, title string, year int) (movie *Movie, err error) {
	start := time.Now()
	defer func() { metrics.RecordOMDBLookup(time.Since(start), err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("omdb rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(title, year), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("omdb request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode omdb response: %w", err)
	}
	if r.Response == "False" {
		reason := r.Error
		if reason == "" {
			reason = "movie not found"
		}
		return nil, &LookupError{Title: title, Year: year, Reason: reason}
	}

	return parseMovie(title, year, &r)
}

func (c *Client) buildURL(title string, year int) string {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	params.Set("y", strconv.Itoa(year))
	return fmt.Sprintf("%s/?%s", c.baseURL, params.Encode())
}

func parseMovie(title string, year int, r *response) (*Movie, error) {
	m := &Movie{Title: title, Year: year}
	var err error

	if v := strings.TrimSpace(r.IMDBRating); v != "" && v != notAvailable {
		if m.Rating, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, &LookupError{Title: title, Year: year, Reason: fmt.Sprintf("bad imdbRating %q", v)}
		}
	}
	if m.Votes, err = parseCount(r.IMDBVotes); err != nil {
		return nil, &LookupError{Title: title, Year: year, Reason: fmt.Sprintf("bad imdbVotes %q", r.IMDBVotes)}
	}
	if m.BoxOffice, err = parseCount(r.BoxOffice); err != nil {
		return nil, &LookupError{Title: title, Year: year, Reason: fmt.Sprintf("bad BoxOffice %q", r.BoxOffice)}
	}
	return m, nil
}

// parseCount reads "1,234" or "$1,234" as an integer; N/A is 0.
func parseCount(v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == notAvailable {
		return 0, nil
	}
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	return strconv.ParseInt(v, 10, 64)
}

// readBodyForError reads at most maxErrorBodySize bytes of a failed response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
