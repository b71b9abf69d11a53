package model

import "time"

// SearchEvent represents a single agency search for analytics tracking
type SearchEvent struct {
	Query        string        `json:"query"`
	ResultCount  int           `json:"result_count"`
	TopScore     float64       `json:"top_score"` // Score of the best match, 0 when nothing cleared the threshold
	NoMatch      bool          `json:"no_match"`
	ResponseTime time.Duration `json:"response_time"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms   int `json:"bucket_0_25ms"`
	Bucket25To50ms  int `json:"bucket_25_50ms"`
	Bucket50To100ms int `json:"bucket_50_100ms"`
	Bucket100msPlus int `json:"bucket_100ms_plus"`
}

// AnalyticsSummary aggregates the tracked search events
type AnalyticsSummary struct {
	TotalSearches            int                      `json:"total_searches"`
	Searches24h              int                      `json:"searches_24h"`
	NoMatchCount             int                      `json:"no_match_count"`
	NoMatchRate              float64                  `json:"no_match_rate"` // Share of searches that ended in a create-new suggestion
	AvgResponseTimeMs        float64                  `json:"avg_response_time_ms"`
	AvgTopScore              float64                  `json:"avg_top_score"` // Averaged over searches with at least one match
	PopularSearches          []PopularSearch          `json:"popular_searches"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
}
