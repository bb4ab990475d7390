package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mili4400/FinanzApp-Cloud/internal/calculator"
	"github.com/mili4400/FinanzApp-Cloud/internal/models"
)

// Memoization windows. Staleness inside a window is accepted; it exists to
// bound provider load under repeated dashboard refreshes.
const (
	candleTTL       = 5 * time.Minute
	newsTTL         = 5 * time.Minute
	fundamentalsTTL = 10 * time.Minute
)

// MarketFetcher is what MarketService needs from the provider client.
type MarketFetcher interface {
	FetchCandles(ctx context.Context, ticker string, from, to time.Time) ([]models.Candle, error)
	FetchFundamentals(ctx context.Context, ticker string) (models.FundamentalsSnapshot, error)
	FetchNews(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.NewsItem, error)
}

// MarketService wraps the provider client with fixed-TTL memoization.
// Cache errors degrade to a direct fetch; they are never surfaced.
type MarketService struct {
	fetcher MarketFetcher
	cache   Cache
}

func NewMarketService(fetcher MarketFetcher, cache Cache) *MarketService {
	return &MarketService{fetcher: fetcher, cache: cache}
}

const dateKey = "2006-01-02"

// Candles returns the daily series for ticker over [from, to]. An empty
// series is a meaningful "no data" result, not an error.
func (s *MarketService) Candles(ctx context.Context, ticker string, from, to time.Time) ([]models.Candle, error) {
	key := fmt.Sprintf("eod:%s:%s:%s", ticker, from.Format(dateKey), to.Format(dateKey))

	var cached []models.Candle
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	candles, err := s.fetcher.FetchCandles(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, candles, candleTTL)
	return candles, nil
}

// Fundamentals returns the snapshot for ticker; an empty snapshot means
// the provider had nothing to report.
func (s *MarketService) Fundamentals(ctx context.Context, ticker string) (models.FundamentalsSnapshot, error) {
	key := "fund:" + ticker

	var cached models.FundamentalsSnapshot
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	snapshot, err := s.fetcher.FetchFundamentals(ctx, ticker)
	if err != nil {
		return models.FundamentalsSnapshot{}, err
	}
	s.cacheSet(ctx, key, snapshot, fundamentalsTTL)
	return snapshot, nil
}

// News returns up to limit normalized headlines for ticker over [from, to].
func (s *MarketService) News(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.NewsItem, error) {
	key := fmt.Sprintf("news:%s:%s:%s:%d", ticker, from.Format(dateKey), to.Format(dateKey), limit)

	var cached []models.NewsItem
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	items, err := s.fetcher.FetchNews(ctx, ticker, from, to, limit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, items, newsTTL)
	return items, nil
}

// Signal compares the latest close of candles against its SMA20.
func (s *MarketService) Signal(candles []models.Candle) models.Signal {
	return calculator.CloseSignal(candles)
}

func (s *MarketService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		return false
	}
	return hit
}

func (s *MarketService) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}
