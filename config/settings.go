// Package config provides configuration structures for the agency finder.
// It defines server, search, backend and logging settings.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Backend kinds
const (
	BackendLocal = "local" // In-process store under DataDir
	BackendCRM   = "crm"   // Remote CRM search API
)

// Settings is the root configuration object.
type Settings struct {
	Server  ServerSettings  `mapstructure:"server" json:"server"`
	Search  SearchSettings  `mapstructure:"search" json:"search"`
	Backend BackendSettings `mapstructure:"backend" json:"backend"`
	Log     LogSettings     `mapstructure:"log" json:"log"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Port         string `mapstructure:"port" json:"port"`                     // Port to listen on (e.g., "8080")
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" json:"max_body_bytes"` // Request body limit
}

// SearchSettings configures retrieval and ranking.
type SearchSettings struct {
	PageSize     int      `mapstructure:"page_size" json:"page_size"`         // Candidates requested from the backend and scored (default 50)
	Threshold    float64  `mapstructure:"threshold" json:"threshold"`         // Exclusive minimum score to keep a candidate, in (0, 1); 0 means unset and becomes 0.3
	TargetFields []string `mapstructure:"target_fields" json:"target_fields"` // Fields each token is matched against at retrieval time
	MaxResults   int      `mapstructure:"max_results" json:"max_results"`     // Optional top-K after ranking; 0 means unlimited
}

// BackendSettings selects and configures the search backend.
type BackendSettings struct {
	Kind              string        `mapstructure:"kind" json:"kind"`                               // "local" or "crm"
	DataDir           string        `mapstructure:"data_dir" json:"data_dir"`                       // local: directory for persisted records
	BaseURL           string        `mapstructure:"base_url" json:"base_url"`                       // crm: API base URL
	ObjectType        string        `mapstructure:"object_type" json:"object_type"`                 // crm: object type holding agencies (e.g., "companies")
	Token             string        `mapstructure:"token" json:"-"`                                 // crm: bearer token
	Timeout           time.Duration `mapstructure:"timeout" json:"timeout"`                         // crm: per-request timeout
	RequestsPerSecond float64       `mapstructure:"requests_per_second" json:"requests_per_second"` // crm: client-side rate limit
	Properties        []string      `mapstructure:"properties" json:"properties"`                   // crm: properties requested with each result
}

// LogSettings configures the structured logger.
type LogSettings struct {
	JSON  bool   `mapstructure:"json" json:"json"`
	Level string `mapstructure:"level" json:"level"`
}

// ApplyDefaults applies default values to unset settings
func (s *Settings) ApplyDefaults() {
	if s.Server.Port == "" {
		s.Server.Port = "8080"
	}
	if s.Server.MaxBodyBytes == 0 {
		s.Server.MaxBodyBytes = 1 << 20
	}

	if s.Search.PageSize == 0 {
		s.Search.PageSize = 50
	}
	if s.Search.Threshold == 0 { // Unset; a literal zero threshold is not a valid setting
		s.Search.Threshold = 0.3
	}
	if len(s.Search.TargetFields) == 0 {
		s.Search.TargetFields = []string{"name"}
	}

	if s.Backend.Kind == "" {
		s.Backend.Kind = BackendLocal
	}
	if s.Backend.DataDir == "" {
		s.Backend.DataDir = "./agency_data"
	}
	if s.Backend.ObjectType == "" {
		s.Backend.ObjectType = "companies"
	}
	if s.Backend.Timeout == 0 {
		s.Backend.Timeout = 10 * time.Second
	}
	if s.Backend.RequestsPerSecond == 0 {
		s.Backend.RequestsPerSecond = 5
	}
	if len(s.Backend.Properties) == 0 {
		s.Backend.Properties = []string{"name", "suburb", "state", "postcode", "email", "phone"}
	}

	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
}

// Validate returns a message for every invalid setting
func (s *Settings) Validate() []string {
	var errors []string

	if s.Search.PageSize <= 0 {
		errors = append(errors, fmt.Sprintf("search.page_size must be positive, got %d", s.Search.PageSize))
	}
	if s.Search.Threshold <= 0 || s.Search.Threshold >= 1 {
		errors = append(errors, fmt.Sprintf("search.threshold must be in (0, 1), got %g", s.Search.Threshold))
	}
	if s.Search.MaxResults < 0 {
		errors = append(errors, fmt.Sprintf("search.max_results cannot be negative, got %d", s.Search.MaxResults))
	}
	errors = append(errors, checkDuplicates("search.target_fields", s.Search.TargetFields)...)
	for _, field := range s.Search.TargetFields {
		if strings.TrimSpace(field) == "" {
			errors = append(errors, "Field name in search.target_fields cannot be empty or whitespace-only")
		}
	}

	switch s.Backend.Kind {
	case BackendLocal:
		if strings.TrimSpace(s.Backend.DataDir) == "" {
			errors = append(errors, "backend.data_dir is required for the local backend")
		}
	case BackendCRM:
		if strings.TrimSpace(s.Backend.BaseURL) == "" {
			errors = append(errors, "backend.base_url is required for the crm backend")
		}
		if s.Backend.RequestsPerSecond <= 0 {
			errors = append(errors, "backend.requests_per_second must be positive")
		}
	default:
		errors = append(errors, "Invalid backend.kind '"+s.Backend.Kind+"' (must be 'local' or 'crm')")
	}

	return errors
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}
