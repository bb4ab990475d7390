package models

// NewsItem is one normalized headline. PublishedAt keeps the provider's
// timestamp string as-is; Description is already truncated for display.
type NewsItem struct {
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Link        string `json:"link"`
	Description string `json:"description"`
}
