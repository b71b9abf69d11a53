package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/agency-finder/config"
	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/filter"
	"github.com/gcbaptista/agency-finder/model"
	"github.com/gcbaptista/agency-finder/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.BackendSettings{
		BaseURL:    server.URL + "/",
		ObjectType: "companies",
		Token:      "secret-token",
		Timeout:    2 * time.Second,
		Properties: []string{"name", "suburb", "postcode"},
	})
}

func TestClient_RetrieveSendsOneGroupPerCondition(t *testing.T) {
	var got searchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crm/v3/objects/companies/search", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":2,"results":[
			{"id":"101","properties":{"name":"Stanford Legal Group","suburb":"Richmond","postcode":3121,"hs_object_id":"101"}},
			{"id":"102","properties":{"name":"Stanford Lawyers","suburb":null}}
		]}`))
	})

	req := services.RetrievalRequest{
		Groups: filter.BuildFilterGroups([]string{"stanford", "legal"}, []string{"name", "suburb"}),
		Limit:  50,
	}
	agencies, err := client.Retrieve(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, got.FilterGroups, 4)
	assert.Equal(t, searchFilter{PropertyName: "name", Operator: model.OperatorContainsToken, Value: "stanford"}, got.FilterGroups[0].Filters[0])
	assert.Equal(t, searchFilter{PropertyName: "suburb", Operator: model.OperatorContainsToken, Value: "stanford"}, got.FilterGroups[1].Filters[0])
	assert.Equal(t, "legal", got.FilterGroups[2].Filters[0].Value)
	for _, g := range got.FilterGroups {
		assert.Len(t, g.Filters, 1)
	}
	assert.Equal(t, []string{"name", "suburb", "postcode"}, got.Properties)
	assert.Equal(t, 50, got.Limit)

	require.Len(t, agencies, 2)
	assert.Equal(t, "101", agencies[0].ID)
	assert.Equal(t, "Stanford Legal Group", agencies[0].Name)
	require.NotNil(t, agencies[0].Suburb)
	assert.Equal(t, "Richmond", *agencies[0].Suburb)
	require.NotNil(t, agencies[0].Postcode)
	assert.Equal(t, "3121", *agencies[0].Postcode)
	assert.Equal(t, "101", agencies[0].Attributes["hs_object_id"])

	assert.Equal(t, "Stanford Lawyers", agencies[1].Name)
	assert.Nil(t, agencies[1].Suburb)
}

func TestClient_RetrieveWithoutGroupsSkipsCall(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	agencies, err := client.Retrieve(context.Background(), services.RetrievalRequest{Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, agencies)
	assert.False(t, called)
}

func TestClient_RetrieveBackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","message":"rate limit"}`))
	})

	req := services.RetrievalRequest{Groups: filter.BuildFilterGroups([]string{"stanford"}, nil), Limit: 10}
	_, err := client.Retrieve(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBackendUnavailable))

	var backendErr *errors.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusTooManyRequests, backendErr.StatusCode)
	assert.Equal(t, "search", backendErr.Operation)
	assert.Contains(t, backendErr.Body, "rate limit")
}

func TestClient_RetrieveMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":`))
	})

	req := services.RetrievalRequest{Groups: filter.BuildFilterGroups([]string{"stanford"}, nil), Limit: 10}
	_, err := client.Retrieve(context.Background(), req)
	assert.Error(t, err)
}

func TestClient_RetrieveHonorsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := services.RetrievalRequest{Groups: filter.BuildFilterGroups([]string{"stanford"}, nil), Limit: 10}
	_, err := client.Retrieve(ctx, req)
	assert.Error(t, err)
}

func TestClient_Create(t *testing.T) {
	var got createRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm/v3/objects/companies", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"555","properties":{"name":"Harbour Conveyancing","suburb":"Docklands","createdate":"2026-01-01T00:00:00Z"}}`))
	})

	agency, err := client.Create(context.Background(), model.AgencyDraft{
		Name:   " Harbour Conveyancing ",
		Suburb: model.StringPtr("Docklands"),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Harbour Conveyancing", "suburb": "Docklands"}, got.Properties)
	assert.Equal(t, "555", agency.ID)
	assert.Equal(t, "Harbour Conveyancing", agency.Name)
	assert.Equal(t, "2026-01-01T00:00:00Z", agency.Attributes["createdate"])
}

func TestClient_CreateFallsBackToDraftFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"556","properties":{"hs_object_id":"556"}}`))
	})

	agency, err := client.Create(context.Background(), model.AgencyDraft{Name: "Harbour Conveyancing"})
	require.NoError(t, err)
	assert.Equal(t, "556", agency.ID)
	assert.Equal(t, "Harbour Conveyancing", agency.Name)
	assert.Equal(t, "556", agency.Attributes["hs_object_id"])
}

func TestClient_CreateRequiresName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Create(context.Background(), model.AgencyDraft{})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestClient_CreateRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := client.Create(context.Background(), model.AgencyDraft{Name: "Dup"})
	var backendErr *errors.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "create", backendErr.Operation)
	assert.Equal(t, http.StatusConflict, backendErr.StatusCode)
}

func TestExcerptTruncates(t *testing.T) {
	long := make([]byte, maxErrorBody+100)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, excerpt(long), maxErrorBody+3)
	assert.Equal(t, "short", excerpt([]byte("  short \n")))
}

func TestClient_RetrieveBatchesFilterGroups(t *testing.T) {
	var (
		groupsPerCall []int
		limits        []int
	)
	pages := []string{
		`{"results":[{"id":"1","properties":{"name":"Stanford Legal Group"}},{"id":"2","properties":{"name":"Stanford Lawyers"}}]}`,
		`{"results":[{"id":"2","properties":{"name":"Stanford Lawyers"}},{"id":"3","properties":{"name":"Legal Group Pty Ltd"}}]}`,
		`{"results":[{"id":"4","properties":{"name":"Melbourne Legal"}}]}`,
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.LessOrEqual(t, len(body.FilterGroups), maxFilterGroups)
		groupsPerCall = append(groupsPerCall, len(body.FilterGroups))
		limits = append(limits, body.Limit)
		_, _ = w.Write([]byte(pages[len(groupsPerCall)-1]))
	})

	tokens := []string{"stanford", "legal", "group", "pty", "ltd", "melbourne"}
	req := services.RetrievalRequest{
		Groups: filter.BuildFilterGroups(tokens, []string{"name", "suburb"}),
		Limit:  50,
	}
	agencies, err := client.Retrieve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []int{5, 5, 2}, groupsPerCall)
	assert.Equal(t, []int{50, 48, 47}, limits)

	ids := make([]string, len(agencies))
	for i, a := range agencies {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestClient_RetrieveStopsAtLimit(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"results":[
			{"id":"1","properties":{"name":"Stanford Legal Group"}},
			{"id":"2","properties":{"name":"Stanford Lawyers"}},
			{"id":"3","properties":{"name":"Legal Eagles"}}
		]}`))
	})

	tokens := []string{"stanford", "legal", "group", "pty", "ltd", "melbourne"}
	req := services.RetrievalRequest{Groups: filter.BuildFilterGroups(tokens, nil), Limit: 2}
	agencies, err := client.Retrieve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Len(t, agencies, 2)
}

func TestBatchGroupsRespectsFilterCap(t *testing.T) {
	wide := searchFilterGroup{Filters: make([]searchFilter, 4)}
	groups := []searchFilterGroup{wide, wide, wide, wide, wide}

	batches := batchGroups(groups)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 4)
	assert.Len(t, batches[1], 1)

	assert.Empty(t, batchGroups(nil))
}
