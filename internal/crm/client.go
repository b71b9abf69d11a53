// Package crm is a search backend client for CRM object search APIs that
// accept token filters of the form {propertyName, operator, value}.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gcbaptista/agency-finder/config"
	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/model"
	"github.com/gcbaptista/agency-finder/services"
)

const (
	// maxErrorBody bounds how much of a failed response body is kept on the error.
	maxErrorBody = 512

	// Per-request limits of the CRM search endpoint.
	maxFilterGroups = 5
	maxFilters      = 18
)

// Client talks to a remote CRM over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	objectType string
	token      string
	properties []string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter replaces the request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a CRM client from backend settings.
func NewClient(settings config.BackendSettings, opts ...Option) *Client {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if settings.RequestsPerSecond > 0 {
		limit = rate.Limit(settings.RequestsPerSecond)
	}

	c := &Client{
		baseURL:    strings.TrimRight(settings.BaseURL, "/"),
		objectType: settings.ObjectType,
		token:      settings.Token,
		properties: settings.Properties,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		log:        logger.Named("crm"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the backend in logs and errors.
func (c *Client) Name() string {
	return "crm"
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchFilterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchRequest struct {
	FilterGroups []searchFilterGroup `json:"filterGroups"`
	Properties   []string            `json:"properties,omitempty"`
	Limit        int                 `json:"limit,omitempty"`
}

type objectRecord struct {
	ID         string                 `json:"id"`
	Properties map[string]interface{} `json:"properties"`
}

type searchResponse struct {
	Total   int            `json:"total"`
	Results []objectRecord `json:"results"`
}

type createRequest struct {
	Properties map[string]string `json:"properties"`
}

// Retrieve searches the CRM for records matching any filter group. Filters
// inside a native group are ANDed and groups are ORed, so every (token, field)
// condition gets its own group. The endpoint caps groups per request, so the
// groups are sent in batches and the results merged in arrival order without
// duplicates, stopping once req.Limit records are collected.
func (c *Client) Retrieve(ctx context.Context, req services.RetrievalRequest) ([]model.Agency, error) {
	native := nativeGroups(req.Groups)
	agencies := make([]model.Agency, 0)
	if len(native) == 0 {
		return agencies, nil
	}

	batches := batchGroups(native)
	seen := make(map[string]struct{})
	calls := 0
	for _, batch := range batches {
		limit := req.Limit
		if limit > 0 {
			limit -= len(agencies)
		}
		body := searchRequest{
			FilterGroups: batch,
			Properties:   c.properties,
			Limit:        limit,
		}

		var resp searchResponse
		if err := c.post(ctx, "search", c.objectsURL()+"/search", body, &resp); err != nil {
			return nil, err
		}
		calls++

		for _, record := range resp.Results {
			if _, dup := seen[record.ID]; dup {
				continue
			}
			seen[record.ID] = struct{}{}
			agencies = append(agencies, toAgency(record))
			if req.Limit > 0 && len(agencies) >= req.Limit {
				break
			}
		}
		if req.Limit > 0 && len(agencies) >= req.Limit {
			break
		}
	}

	c.log.Debugw("CRM search completed",
		logger.FieldCount, len(agencies),
		"filter_groups", len(native),
		"requests", calls,
		"batches", len(batches),
	)
	return agencies, nil
}

// Create stores a new object and returns it as the CRM echoes it back.
func (c *Client) Create(ctx context.Context, draft model.AgencyDraft) (model.Agency, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return model.Agency{}, errors.NewValidationError("name", "agency name is required")
	}

	body := createRequest{Properties: draft.ToAgency("").Properties()}
	var record objectRecord
	if err := c.post(ctx, "create", c.objectsURL(), body, &record); err != nil {
		return model.Agency{}, err
	}
	if record.ID == "" {
		return model.Agency{}, errors.New("CRM create response carried no id")
	}

	agency := toAgency(record)
	if agency.Name == "" {
		// Some CRMs only echo properties that were explicitly requested
		created := draft.ToAgency(record.ID)
		created.Attributes = agency.Attributes
		agency = created
	}
	return agency, nil
}

func (c *Client) objectsURL() string {
	return fmt.Sprintf("%s/crm/v3/objects/%s", c.baseURL, c.objectType)
}

func (c *Client) post(ctx context.Context, operation, url string, payload, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "CRM %s request failed", operation)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Warnw("Failed to close response body", logger.FieldError, closeErr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	c.log.Debugw("CRM call",
		"operation", operation,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewBackendError(operation, resp.StatusCode, excerpt(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "failed to decode CRM %s response", operation)
	}
	return nil
}

func nativeGroups(groups []model.FilterGroup) []searchFilterGroup {
	native := make([]searchFilterGroup, 0, len(groups))
	for _, group := range groups {
		for _, cond := range group.Conditions {
			native = append(native, searchFilterGroup{
				Filters: []searchFilter{{
					PropertyName: cond.Field,
					Operator:     cond.Operator,
					Value:        cond.Value,
				}},
			})
		}
	}
	return native
}

// batchGroups splits native groups into request-sized batches, keeping their order.
func batchGroups(groups []searchFilterGroup) [][]searchFilterGroup {
	var (
		batches [][]searchFilterGroup
		current []searchFilterGroup
		filters int
	)
	for _, group := range groups {
		if len(current) == maxFilterGroups || (len(current) > 0 && filters+len(group.Filters) > maxFilters) {
			batches = append(batches, current)
			current, filters = nil, 0
		}
		current = append(current, group)
		filters += len(group.Filters)
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

func toAgency(record objectRecord) model.Agency {
	agency := model.Agency{ID: record.ID}
	for name, raw := range record.Properties {
		switch v := raw.(type) {
		case nil:
			continue
		case string:
			agency.SetField(name, v)
		default:
			if isKnownField(name) {
				agency.SetField(name, fmt.Sprint(v))
				continue
			}
			if agency.Attributes == nil {
				agency.Attributes = make(map[string]interface{})
			}
			agency.Attributes[name] = v
		}
	}
	return agency
}

func isKnownField(name string) bool {
	for _, field := range model.KnownFields {
		if field == name {
			return true
		}
	}
	return false
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
