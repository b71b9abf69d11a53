package index

// PostingEntry records that a token occurs in one field of one record.
type PostingEntry struct {
	DocID     uint32 // Internal numeric ID for efficiency
	FieldName string // The field where the token was found (e.g., "name", "suburb")
}

// PostingList is a slice of PostingEntry in insertion order.
type PostingList []PostingEntry
