// Package matcher wires tokenization, retrieval and ranking into the
// agency search flow.
package matcher

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/agency-finder/config"
	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/filter"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/internal/ranking"
	"github.com/gcbaptista/agency-finder/model"
	"github.com/gcbaptista/agency-finder/services"
)

// ExactScore is reported for a freshly created record: it is authoritative
// and carries no residual ambiguity.
const ExactScore = 1.0

// Service implements services.Matcher on top of a search backend.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	backend  services.Backend
	settings config.SearchSettings
	log      *zap.SugaredLogger
}

// NewService creates a matcher for the given backend.
func NewService(backend services.Backend, settings config.SearchSettings) *Service {
	return &Service{
		backend:  backend,
		settings: settings,
		log:      logger.Named("matcher"),
	}
}

// Find looks up existing agencies matching the query.
// An empty match list is not an error: the result then carries a
// pre-filled draft for creating the agency instead.
func (s *Service) Find(ctx context.Context, query model.AgencyQuery) (*services.MatchResult, error) {
	start := time.Now()
	result := &services.MatchResult{
		Matches: []model.ScoredAgency{},
		QueryID: uuid.New().String(),
	}

	search := query.SearchQuery()
	term := query.Term()
	log := s.log.With(logger.FieldQueryID, result.QueryID)

	if len(search.Tokens) == 0 {
		log.Debugw("Query has no tokens, skipping retrieval", logger.FieldQuery, search.NormalizedText)
		return s.finish(result, query, start), nil
	}

	groups := filter.BuildFilterGroups(search.Tokens, s.settings.TargetFields)
	candidates, err := s.backend.Retrieve(ctx, services.RetrievalRequest{
		Groups: groups,
		Limit:  s.settings.PageSize,
	})
	if err != nil {
		log.Warnw("Candidate retrieval failed",
			logger.FieldBackend, s.backend.Name(),
			logger.FieldTokens, filter.Tokens(groups),
			logger.FieldError, err)
		return nil, errors.NewRetrievalError(s.backend.Name(), err)
	}

	ranked := ranking.Rank(candidates, term, ranking.Options{
		Threshold: s.settings.Threshold,
		Limit:     s.settings.PageSize,
	})
	ranked = ranking.TopK(ranked, s.maxResults(query))

	result.Matches = ranked
	result.Candidates = len(candidates)
	result = s.finish(result, query, start)

	log.Debugw("Ranked candidates",
		logger.FieldQuery, search.NormalizedText,
		logger.FieldTokens, filter.Tokens(groups),
		logger.FieldCandidates, len(candidates),
		logger.FieldCount, len(ranked),
		logger.FieldDurationMS, result.Took)
	return result, nil
}

// Create stores a new agency and returns it with the exact-match score.
func (s *Service) Create(ctx context.Context, draft model.AgencyDraft) (model.ScoredAgency, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return model.ScoredAgency{}, errors.NewValidationError("name", "agency name is required")
	}

	agency, err := s.backend.Create(ctx, draft)
	if err != nil {
		return model.ScoredAgency{}, errors.Wrapf(err, "creating agency %q", draft.Name)
	}

	s.log.Infow("Created agency", "id", agency.ID, logger.FieldBackend, s.backend.Name())
	return model.ScoredAgency{Agency: agency, Score: ExactScore}, nil
}

func (s *Service) finish(result *services.MatchResult, query model.AgencyQuery, start time.Time) *services.MatchResult {
	result.Total = len(result.Matches)
	if result.Total == 0 {
		draft := query.Draft()
		result.NoMatch = true
		result.Suggestion = &draft
	}
	result.Took = time.Since(start).Milliseconds()
	return result
}

func (s *Service) maxResults(query model.AgencyQuery) int {
	if query.MaxResults > 0 {
		return query.MaxResults
	}
	return s.settings.MaxResults
}
