package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/agency-finder/model"
)

const (
	maxEventsToKeep    = 10000 // Keep last 10k events for performance
	maxPopularSearches = 10
)

// Service implements analytics tracking and reporting for agency searches.
// It is safe for concurrent use.
type Service struct {
	mutex  sync.RWMutex
	events []model.SearchEvent
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService() *Service {
	return &Service{
		events: make([]model.SearchEvent, 0),
		now:    time.Now,
	}
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
}

// Summary returns aggregated analytics over every retained event
func (s *Service) Summary() model.AnalyticsSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := model.AnalyticsSummary{
		TotalSearches:            len(s.events),
		Searches24h:              len(s.filterEventsByTime(s.events, s.now().Add(-24*time.Hour))),
		PopularSearches:          s.getPopularSearches(s.events),
		ResponseTimeDistribution: s.getResponseTimeDistribution(s.events),
	}
	if len(s.events) == 0 {
		return summary
	}

	var totalResponse time.Duration
	var totalTopScore float64
	matched := 0
	for _, event := range s.events {
		totalResponse += event.ResponseTime
		if event.NoMatch {
			summary.NoMatchCount++
			continue
		}
		totalTopScore += event.TopScore
		matched++
	}

	summary.NoMatchRate = float64(summary.NoMatchCount) / float64(len(s.events))
	summary.AvgResponseTimeMs = float64(totalResponse.Microseconds()) / 1000 / float64(len(s.events))
	if matched > 0 {
		summary.AvgTopScore = totalTopScore / float64(matched)
	}
	return summary
}

// filterEventsByTime returns events after the given time
func (s *Service) filterEventsByTime(events []model.SearchEvent, after time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// getPopularSearches returns the most popular search terms
func (s *Service) getPopularSearches(events []model.SearchEvent) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	// Sort by count descending, then query for a stable output
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > maxPopularSearches {
		popular = popular[:maxPopularSearches]
	}
	return popular
}

// getResponseTimeDistribution buckets response times
func (s *Service) getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	var dist model.ResponseTimeDistribution
	for _, event := range events {
		switch ms := event.ResponseTime.Milliseconds(); {
		case ms < 25:
			dist.Bucket0To25ms++
		case ms < 50:
			dist.Bucket25To50ms++
		case ms < 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}
	return dist
}
