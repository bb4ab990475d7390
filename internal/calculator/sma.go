package calculator

import (
	"errors"

	"github.com/mili4400/FinanzApp-Cloud/internal/models"
)

// SMAPeriod is the lookback used for the dashboard's close-price alert.
const SMAPeriod = 20

// SMA computes the simple moving average of the trailing period samples.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// CloseSignal compares the latest close of a daily series against its
// trailing 20-day SMA. With fewer than 20 candles the signal is undefined
// and SignalNone is returned.
func CloseSignal(candles []models.Candle) models.Signal {
	if len(candles) < SMAPeriod {
		return models.SignalNone
	}
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	sma, err := SMA(closes, SMAPeriod)
	if err != nil {
		return models.SignalNone
	}
	if closes[len(closes)-1] > sma {
		return models.SignalAbove
	}
	return models.SignalBelow
}
