package models

// FundamentalsSnapshot is the small subset of the provider's fundamentals
// payload the dashboard displays. Nil numeric fields and empty strings mean
// the provider did not report a value.
type FundamentalsSnapshot struct {
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	MarketCap     *float64 `json:"marketCap"`
	PERatio       *float64 `json:"peRatio"`
	DividendYield *float64 `json:"dividendYield"`
}

// IsEmpty reports whether no field carries provider data.
func (f FundamentalsSnapshot) IsEmpty() bool {
	return f.Name == "" && f.Sector == "" &&
		f.MarketCap == nil && f.PERatio == nil && f.DividendYield == nil
}
