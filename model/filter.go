package model

// OperatorContainsToken is the only retrieval operator: the field's
// case-insensitive token set contains Value.
const OperatorContainsToken = "CONTAINS_TOKEN"

// FilterCondition tests a single field of a record.
type FilterCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// FilterGroup expresses "any of the target fields contains Token".
// Conditions within a group are OR'd, and groups are OR'd with each other.
type FilterGroup struct {
	Token      string            `json:"token"`
	Conditions []FilterCondition `json:"conditions"`
}
