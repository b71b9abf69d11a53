// Package engine is the in-process search backend: agency records kept in
// memory, indexed by token, and persisted to a gob file.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/agency-finder/index"
	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/internal/persistence"
	"github.com/gcbaptista/agency-finder/model"
	"github.com/gcbaptista/agency-finder/services"
	"github.com/gcbaptista/agency-finder/store"
)

const (
	dataDirPerm = 0750
	agencyFile  = "agencies.gob"

	// ImportBatchSize is how many records Import writes per lock acquisition.
	ImportBatchSize = 500
)

// Engine implements services.Backend over a local store.
type Engine struct {
	mu      sync.RWMutex // Serializes writes against retrievals spanning store and index
	store   *store.AgencyStore
	index   *index.InvertedIndex
	dataDir string // Empty disables persistence
	log     *zap.SugaredLogger
}

// NewEngine creates the local backend and loads any records persisted under dataDir.
// An empty dataDir keeps everything in memory.
func NewEngine(dataDir string) (*Engine, error) {
	eng := &Engine{
		store:   store.NewAgencyStore(),
		index:   index.NewInvertedIndex(),
		dataDir: dataDir,
		log:     logger.Named("engine"),
	}
	if dataDir == "" {
		return eng, nil
	}

	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, errors.Wrapf(err, "could not create data directory %s", dataDir)
	}
	if err := eng.loadFromDisk(); err != nil {
		return nil, err
	}
	return eng, nil
}

// Name identifies the backend in logs and errors.
func (e *Engine) Name() string {
	return "local"
}

// Retrieve returns every record matching any filter group, in insertion
// order, capped at req.Limit.
func (e *Engine) Retrieve(ctx context.Context, req services.RetrievalRequest) ([]model.Agency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make(map[uint32]struct{})
	for _, group := range req.Groups {
		for _, cond := range group.Conditions {
			if cond.Operator != model.OperatorContainsToken {
				e.log.Warnw("Skipping unsupported filter operator", "operator", cond.Operator, "field", cond.Field)
				continue
			}
			for _, docID := range e.index.Lookup(cond.Value, cond.Field) {
				matched[docID] = struct{}{}
			}
		}
	}

	docIDs := make([]uint32, 0, len(matched))
	for docID := range matched {
		docIDs = append(docIDs, docID)
	}
	sort.Slice(docIDs, func(i, j int) bool { return docIDs[i] < docIDs[j] })
	if req.Limit > 0 && len(docIDs) > req.Limit {
		docIDs = docIDs[:req.Limit]
	}

	agencies := make([]model.Agency, 0, len(docIDs))
	for _, docID := range docIDs {
		if agency, ok := e.store.Get(docID); ok {
			agencies = append(agencies, agency)
		}
	}
	return agencies, nil
}

// Create stores a new record under a fresh UUID and persists the store.
func (e *Engine) Create(ctx context.Context, draft model.AgencyDraft) (model.Agency, error) {
	if err := ctx.Err(); err != nil {
		return model.Agency{}, err
	}
	if strings.TrimSpace(draft.Name) == "" {
		return model.Agency{}, errors.NewValidationError("name", "agency name is required")
	}

	agency := draft.ToAgency(uuid.New().String())

	e.mu.Lock()
	defer e.mu.Unlock()

	e.put(agency)
	if err := e.persist(); err != nil {
		return model.Agency{}, err
	}
	return agency, nil
}

// Add inserts or replaces records keyed by their own IDs and persists once.
// Nothing is written when any record is invalid.
func (e *Engine) Add(agencies []model.Agency) error {
	if err := validateRecords(agencies); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, agency := range agencies {
		e.put(agency)
	}
	return e.persist()
}

// Import is Add for large record sets. It writes in batches so searches
// keep being served, reports progress after each batch and stops early
// when ctx is done. Records written before cancellation are kept.
func (e *Engine) Import(ctx context.Context, agencies []model.Agency, progress func(done, total int)) error {
	if err := validateRecords(agencies); err != nil {
		return err
	}

	total := len(agencies)
	var importErr error
	for start := 0; start < total; start += ImportBatchSize {
		if importErr = ctx.Err(); importErr != nil {
			break
		}
		end := min(start+ImportBatchSize, total)

		e.mu.Lock()
		for _, agency := range agencies[start:end] {
			e.put(agency)
		}
		e.mu.Unlock()

		if progress != nil {
			progress(end, total)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.persist(); err != nil {
		return errors.Join(importErr, err)
	}
	e.log.Infow("Import finished",
		logger.FieldCount, e.store.Len(),
		"indexed_tokens", e.index.TokenCount(),
		"cancelled", importErr != nil)
	return importErr
}

func validateRecords(agencies []model.Agency) error {
	seen := make(map[string]int, len(agencies))
	for i, agency := range agencies {
		if strings.TrimSpace(agency.ID) == "" {
			return errors.NewValidationError("id", fmt.Sprintf("record at position %d has no ID", i))
		}
		if strings.TrimSpace(agency.Name) == "" {
			return errors.NewValidationError("name", fmt.Sprintf("record '%s' has no name", agency.ID))
		}
		if first, dup := seen[agency.ID]; dup {
			return errors.NewValidationError("id", fmt.Sprintf("records at positions %d and %d share ID '%s'", first, i, agency.ID))
		}
		seen[agency.ID] = i
	}
	return nil
}

// Get returns a record by ID.
func (e *Engine) Get(id string) (model.Agency, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	agency, ok := e.store.Lookup(id)
	if !ok {
		return model.Agency{}, errors.NewAgencyNotFoundError(id)
	}
	return agency, nil
}

// Count returns the number of stored records.
func (e *Engine) Count() int {
	return e.store.Len()
}

// put must be called with e.mu held for writing.
func (e *Engine) put(agency model.Agency) {
	docID, replaced := e.store.Put(agency)
	if replaced {
		e.index.Remove(docID)
	}
	e.indexAgency(docID, agency)
}

func (e *Engine) indexAgency(docID uint32, agency model.Agency) {
	for field, value := range agency.Properties() {
		e.index.AddField(docID, field, value)
	}
}

func (e *Engine) persist() error {
	if e.dataDir == "" {
		return nil
	}
	path := filepath.Join(e.dataDir, agencyFile)
	if err := persistence.SaveGob(path, e.store); err != nil {
		return errors.Wrap(err, "persisting agencies")
	}
	return nil
}

func (e *Engine) loadFromDisk() error {
	path := filepath.Join(e.dataDir, agencyFile)
	loaded := store.NewAgencyStore()
	if err := persistence.LoadGob(path, loaded); err != nil {
		if err == os.ErrNotExist {
			e.log.Infow("No persisted agencies, starting empty", "file", path)
			return nil
		}
		return errors.Wrapf(err, "loading agencies from %s", path)
	}

	e.store = loaded
	for _, docID := range loaded.DocIDs() {
		agency, _ := loaded.Get(docID)
		e.indexAgency(docID, agency)
	}
	e.log.Infow("Loaded agencies from disk",
		logger.FieldCount, loaded.Len(),
		"indexed_tokens", e.index.TokenCount(),
		"file", path)
	return nil
}
