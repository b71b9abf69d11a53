package index

import (
	"sort"
	"sync"

	"github.com/gcbaptista/agency-finder/internal/tokenizer"
)

// InvertedIndex maps a token to the records and fields containing it.
// It is safe for concurrent use.
type InvertedIndex struct {
	Mu        sync.RWMutex
	Index     map[string]PostingList
	docTokens map[uint32][]string // DocID -> tokens it was indexed under, for removal
}

// NewInvertedIndex creates an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		Index:     make(map[string]PostingList),
		docTokens: make(map[uint32][]string),
	}
}

// AddField indexes every token of text under (docID, field).
func (ii *InvertedIndex) AddField(docID uint32, field, text string) {
	tokens := tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return
	}

	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	for _, token := range tokens {
		ii.Index[token] = append(ii.Index[token], PostingEntry{DocID: docID, FieldName: field})
		ii.docTokens[docID] = append(ii.docTokens[docID], token)
	}
}

// Remove drops every posting of docID.
func (ii *InvertedIndex) Remove(docID uint32) {
	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	for _, token := range ii.docTokens[docID] {
		postings := ii.Index[token]
		kept := postings[:0]
		for _, p := range postings {
			if p.DocID != docID {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(ii.Index, token)
		} else {
			ii.Index[token] = kept
		}
	}
	delete(ii.docTokens, docID)
}

// Lookup returns the distinct records whose field contains token, in
// ascending DocID order. The token is normalized before lookup.
func (ii *InvertedIndex) Lookup(token, field string) []uint32 {
	token = tokenizer.Normalize(token)

	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	seen := make(map[uint32]struct{})
	docIDs := make([]uint32, 0)
	for _, p := range ii.Index[token] {
		if p.FieldName != field {
			continue
		}
		if _, dup := seen[p.DocID]; dup {
			continue
		}
		seen[p.DocID] = struct{}{}
		docIDs = append(docIDs, p.DocID)
	}
	sort.Slice(docIDs, func(i, j int) bool { return docIDs[i] < docIDs[j] })
	return docIDs
}

// TokenCount returns the number of distinct indexed tokens.
func (ii *InvertedIndex) TokenCount() int {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()
	return len(ii.Index)
}
