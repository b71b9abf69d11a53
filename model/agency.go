package model

import "strings"

// Field names understood by the search backends and the filter builder.
const (
	FieldName     = "name"
	FieldSuburb   = "suburb"
	FieldState    = "state"
	FieldPostcode = "postcode"
	FieldEmail    = "email"
	FieldPhone    = "phone"
)

// KnownFields lists the typed agency fields in a stable order.
var KnownFields = []string{FieldName, FieldSuburb, FieldState, FieldPostcode, FieldEmail, FieldPhone}

// Agency is an organizational record returned by a search backend.
// ID and Name are always present; the optional fields are nil when the backend
// has no value for them. Attributes carries any other backend properties
// through unmodified.
type Agency struct {
	ID         string                 `json:"id" yaml:"id"`
	Name       string                 `json:"name" yaml:"name"`
	Suburb     *string                `json:"suburb,omitempty" yaml:"suburb,omitempty"`
	State      *string                `json:"state,omitempty" yaml:"state,omitempty"`
	Postcode   *string                `json:"postcode,omitempty" yaml:"postcode,omitempty"`
	Email      *string                `json:"email,omitempty" yaml:"email,omitempty"`
	Phone      *string                `json:"phone,omitempty" yaml:"phone,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// ComparableText returns the text the ranker scores against the query term.
func (a Agency) ComparableText() string {
	return a.Name
}

// Field returns the value of a typed field by name.
// The second result is false when the field is unknown or unset.
func (a Agency) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return a.Name, a.Name != ""
	case FieldSuburb:
		return deref(a.Suburb)
	case FieldState:
		return deref(a.State)
	case FieldPostcode:
		return deref(a.Postcode)
	case FieldEmail:
		return deref(a.Email)
	case FieldPhone:
		return deref(a.Phone)
	}
	if v, ok := a.Attributes[name].(string); ok {
		return v, v != ""
	}
	return "", false
}

// SetField assigns a typed field by name. Unknown names are stored in Attributes.
func (a *Agency) SetField(name, value string) {
	switch name {
	case FieldName:
		a.Name = value
	case FieldSuburb:
		a.Suburb = optional(value)
	case FieldState:
		a.State = optional(value)
	case FieldPostcode:
		a.Postcode = optional(value)
	case FieldEmail:
		a.Email = optional(value)
	case FieldPhone:
		a.Phone = optional(value)
	default:
		if a.Attributes == nil {
			a.Attributes = make(map[string]interface{})
		}
		a.Attributes[name] = value
	}
}

// Properties flattens the typed fields into a property map, skipping unset ones.
func (a Agency) Properties() map[string]string {
	props := make(map[string]string, len(KnownFields))
	for _, field := range KnownFields {
		if v, ok := a.Field(field); ok {
			props[field] = v
		}
	}
	return props
}

// ScoredAgency is a ranked search result. Score is in [0, 1].
type ScoredAgency struct {
	Agency
	Score float64 `json:"score"`
}

// AgencyDraft holds the field values for a record that does not exist yet.
type AgencyDraft struct {
	Name     string  `json:"name"`
	Suburb   *string `json:"suburb,omitempty"`
	State    *string `json:"state,omitempty"`
	Postcode *string `json:"postcode,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// ToAgency converts the draft into a record with the given ID.
func (d AgencyDraft) ToAgency(id string) Agency {
	return Agency{
		ID:       id,
		Name:     strings.TrimSpace(d.Name),
		Suburb:   trimmed(d.Suburb),
		State:    trimmed(d.State),
		Postcode: trimmed(d.Postcode),
		Email:    trimmed(d.Email),
		Phone:    trimmed(d.Phone),
	}
}

func deref(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(strings.TrimSpace(*s))
}

// StringPtr returns a pointer to s, or nil for an empty string.
func StringPtr(s string) *string {
	return optional(s)
}
