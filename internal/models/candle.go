package models

import (
	"encoding/json"
	"math"
	"time"
)

// Candle represents one daily EOD candle. Price fields that the provider
// sent as unparsable values are NaN and serialize as null.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

func (c Candle) MarshalJSON() ([]byte, error) {
	out := struct {
		Date   string   `json:"date"`
		Open   *float64 `json:"open"`
		High   *float64 `json:"high"`
		Low    *float64 `json:"low"`
		Close  *float64 `json:"close"`
		Volume int64    `json:"volume"`
	}{
		Date:   c.Date.Format("2006-01-02"),
		Open:   jsonNumber(c.Open),
		High:   jsonNumber(c.High),
		Low:    jsonNumber(c.Low),
		Close:  jsonNumber(c.Close),
		Volume: c.Volume,
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the shape MarshalJSON produces, so candles survive
// a round trip through the JSON-based cache.
func (c *Candle) UnmarshalJSON(data []byte) error {
	var in struct {
		Date   string   `json:"date"`
		Open   *float64 `json:"open"`
		High   *float64 `json:"high"`
		Low    *float64 `json:"low"`
		Close  *float64 `json:"close"`
		Volume int64    `json:"volume"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return err
	}
	c.Date = date
	c.Open = fromJSONNumber(in.Open)
	c.High = fromJSONNumber(in.High)
	c.Low = fromJSONNumber(in.Low)
	c.Close = fromJSONNumber(in.Close)
	c.Volume = in.Volume
	return nil
}

func jsonNumber(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fromJSONNumber(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
