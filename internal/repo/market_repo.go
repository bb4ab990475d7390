package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mili4400/FinanzApp-Cloud/internal/models"
)

const dateLayout = "2006-01-02"

// StatusError reports a non-success HTTP status from the provider.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.Code)
}

// isStatusError reports whether err is a provider status error, which for
// fundamentals and news collapses to an empty result instead of failing.
func isStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// MarketRepo talks to the EODHD-style market data API. Every fetch is one
// blocking request with the client's fixed timeout; retrying is left to
// the caller.
type MarketRepo struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewMarketRepo(baseURL, token string, timeout time.Duration) *MarketRepo {
	return &MarketRepo{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// FetchCandles retrieves daily EOD candles for ticker between from and to
// (inclusive). A non-2xx status is an error carrying the status code; an
// empty or malformed body is a valid empty series. Rows come back sorted
// ascending by date with duplicate dates dropped.
func (r *MarketRepo) FetchCandles(ctx context.Context, ticker string, from, to time.Time) ([]models.Candle, error) {
	params := url.Values{}
	params.Set("from", from.Format(dateLayout))
	params.Set("to", to.Format(dateLayout))
	params.Set("fmt", "json")
	params.Set("period", "d")
	params.Set("api_token", r.token)

	var rows []map[string]any
	if err := r.getJSON(ctx, "/eod/"+url.PathEscape(ticker), params, &rows); err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", ticker, err)
	}

	candles := make([]models.Candle, 0, len(rows))
	seen := make(map[time.Time]bool, len(rows))
	for _, row := range rows {
		fields := lowerKeys(row)
		date, err := time.Parse(dateLayout, asString(fields["date"]))
		if err != nil {
			// A row without a parsable date cannot be ordered; skip it.
			continue
		}
		if seen[date] {
			continue
		}
		seen[date] = true
		candles = append(candles, models.Candle{
			Date:   date,
			Open:   asFloat(fields["open"]),
			High:   asFloat(fields["high"]),
			Low:    asFloat(fields["low"]),
			Close:  asFloat(fields["close"]),
			Volume: asInt(fields["volume"]),
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})
	return candles, nil
}

// FetchFundamentals retrieves the dashboard's fundamentals subset. Any
// non-2xx status or malformed body yields an empty snapshot, never an
// error: "no fundamentals" is a normal displayable state.
func (r *MarketRepo) FetchFundamentals(ctx context.Context, ticker string) (models.FundamentalsSnapshot, error) {
	params := url.Values{}
	params.Set("api_token", r.token)

	var payload struct {
		General struct {
			Name   string `json:"Name"`
			Sector string `json:"Sector"`
		} `json:"General"`
		Highlights struct {
			MarketCapitalization *float64 `json:"MarketCapitalization"`
			PERatio              *float64 `json:"PERatio"`
			DividendYield        *float64 `json:"DividendYield"`
		} `json:"Highlights"`
	}
	if err := r.getJSON(ctx, "/fundamentals/"+url.PathEscape(ticker), params, &payload); err != nil {
		if isStatusError(err) {
			return models.FundamentalsSnapshot{}, nil
		}
		return models.FundamentalsSnapshot{}, fmt.Errorf("fetch fundamentals for %s: %w", ticker, err)
	}

	return models.FundamentalsSnapshot{
		Name:          payload.General.Name,
		Sector:        payload.General.Sector,
		MarketCap:     payload.Highlights.MarketCapitalization,
		PERatio:       payload.Highlights.PERatio,
		DividendYield: payload.Highlights.DividendYield,
	}, nil
}

// FetchNews retrieves up to limit headlines for ticker within [from, to].
// A non-2xx status or malformed body yields an empty slice, never an error.
func (r *MarketRepo) FetchNews(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("s", ticker)
	params.Set("from", from.Format(dateLayout))
	params.Set("to", to.Format(dateLayout))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("api_token", r.token)

	var rows []map[string]any
	if err := r.getJSON(ctx, "/news", params, &rows); err != nil {
		if isStatusError(err) {
			return []models.NewsItem{}, nil
		}
		return nil, fmt.Errorf("fetch news for %s: %w", ticker, err)
	}

	items := make([]models.NewsItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, newsItemFromPayload(row))
	}
	return items, nil
}

func (r *MarketRepo) getJSON(ctx context.Context, path string, params url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	// A body that does not decode into the expected shape is treated the
	// same as an empty one; dest keeps its zero value.
	_ = json.NewDecoder(resp.Body).Decode(dest)
	return nil
}

// maxDescription bounds the description text returned for display.
const maxDescription = 400

// newsItemFromPayload extracts one normalized headline from a raw provider
// item. The provider is inconsistent about key names, so each field is
// resolved from a fixed priority list of known spellings.
func newsItemFromPayload(row map[string]any) models.NewsItem {
	desc := pickField(row, "description", "content")
	if runes := []rune(desc); len(runes) > maxDescription {
		desc = string(runes[:maxDescription]) + "..."
	}
	pub := pickField(row, "pubDate", "publishedDate", "date")
	if len(pub) > 19 {
		pub = pub[:19]
	}
	return models.NewsItem{
		Title:       pickField(row, "title", "Title", "headline"),
		PublishedAt: pub,
		Source:      pickField(row, "source", "source_name"),
		Link:        pickField(row, "link", "url"),
		Description: desc,
	}
}

// pickField returns the first non-empty string value among the candidate
// keys, or "".
func pickField(row map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(row[k]); s != "" {
			return s
		}
	}
	return ""
}

func lowerKeys(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[strings.ToLower(k)] = v
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloat coerces a JSON value to float64, with NaN marking values the
// provider sent in an unparsable form.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// asInt coerces a JSON value to int64; unparsable volumes become zero.
func asInt(v any) int64 {
	f := asFloat(v)
	if math.IsNaN(f) {
		return 0
	}
	return int64(f)
}
