package models

// Signal compares the latest close against its 20-day moving average.
type Signal string

const (
	SignalAbove Signal = "ABOVE"
	SignalBelow Signal = "BELOW"
	// SignalNone means fewer than 20 candles were available, so the
	// average is undefined.
	SignalNone Signal = ""
)
