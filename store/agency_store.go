package store

import (
	"bytes"
	"encoding/gob"
	"sort"
	"sync"

	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/model"
)

func init() {
	// Register types that might appear in model.Agency.Attributes (map[string]interface{}).
	// json.Unmarshal into map[string]interface{} gives []interface{} for arrays.
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
	gob.Register([]string{})
	gob.Register(float64(0))
	gob.Register(false)
}

// AgencyStore holds agency records under compact internal IDs assigned in
// insertion order. It is safe for concurrent use.
type AgencyStore struct {
	Mu                     sync.RWMutex
	Agencies               map[uint32]model.Agency // Internal ID to full record
	ExternalIDtoInternalID map[string]uint32       // Record ID to internal uint32 ID
	NextID                 uint32
}

// gobAgencyStoreData is a helper struct for Gob encoding/decoding AgencyStore data.
// It excludes the mutex.
type gobAgencyStoreData struct {
	Agencies               map[uint32]model.Agency
	ExternalIDtoInternalID map[string]uint32
	NextID                 uint32
}

// NewAgencyStore creates an empty store.
func NewAgencyStore() *AgencyStore {
	return &AgencyStore{
		Agencies:               make(map[uint32]model.Agency),
		ExternalIDtoInternalID: make(map[string]uint32),
	}
}

// Put inserts or replaces a record and returns its internal ID.
// A replaced record keeps its internal ID, so its insertion position is stable.
func (s *AgencyStore) Put(agency model.Agency) (docID uint32, replaced bool) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if existing, ok := s.ExternalIDtoInternalID[agency.ID]; ok {
		s.Agencies[existing] = agency
		return existing, true
	}

	docID = s.NextID
	s.NextID++
	s.Agencies[docID] = agency
	s.ExternalIDtoInternalID[agency.ID] = docID
	return docID, false
}

// Get returns the record stored under an internal ID.
func (s *AgencyStore) Get(docID uint32) (model.Agency, bool) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	agency, ok := s.Agencies[docID]
	return agency, ok
}

// Lookup returns the record with the given record ID.
func (s *AgencyStore) Lookup(id string) (model.Agency, bool) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	docID, ok := s.ExternalIDtoInternalID[id]
	if !ok {
		return model.Agency{}, false
	}
	agency, ok := s.Agencies[docID]
	return agency, ok
}

// Len returns the number of stored records.
func (s *AgencyStore) Len() int {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return len(s.Agencies)
}

// DocIDs returns every internal ID in insertion order.
func (s *AgencyStore) DocIDs() []uint32 {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	ids := make([]uint32, 0, len(s.Agencies))
	for id := range s.Agencies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GobEncode implements the gob.GobEncoder interface for AgencyStore.
func (s *AgencyStore) GobEncode() ([]byte, error) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	dataToEncode := gobAgencyStoreData{
		Agencies:               s.Agencies,
		ExternalIDtoInternalID: s.ExternalIDtoInternalID,
		NextID:                 s.NextID,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, errors.Wrap(err, "failed to gob encode agency store data")
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for AgencyStore.
func (s *AgencyStore) GobDecode(data []byte) error {
	decodedData := gobAgencyStoreData{}

	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decodedData); err != nil {
		return errors.Wrap(err, "failed to gob decode agency store data")
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()

	s.Agencies = decodedData.Agencies
	s.ExternalIDtoInternalID = decodedData.ExternalIDtoInternalID
	s.NextID = decodedData.NextID

	// Ensure maps are initialized if they were nil after decoding
	if s.Agencies == nil {
		s.Agencies = make(map[uint32]model.Agency)
	}
	if s.ExternalIDtoInternalID == nil {
		s.ExternalIDtoInternalID = make(map[string]uint32)
	}
	return nil
}
