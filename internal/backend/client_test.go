package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cortexai/datachat/internal/backend"
	"github.com/cortexai/datachat/internal/config"
	"github.com/cortexai/datachat/internal/identity"
	"github.com/cortexai/datachat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// fakeBackend answers each path with a canned JSON body and records requests.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	replies  map[string]string
	status   map[string]int
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{replies: map[string]string{}, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		reply, status := fb.replies[r.URL.Path], fb.status[r.URL.Path]
		fb.mu.Unlock()

		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) last() recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) all() []recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recorded(nil), fb.requests...)
}

func TestGenerateSQL(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/generate_sql"] = `{"GeneratedSQL": "SELECT COUNT(*) FROM clients"}`

	c := backend.New(srv.URL)
	sql, err := c.GenerateSQL(context.Background(), "quantos clientes temos?", "sales")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM clients", sql)

	req := fb.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.JSONEq(t, `{"user_question":"quantos clientes temos?","user_database":"sales"}`, req.Body)
	assert.Empty(t, req.Auth, "unauthenticated client sends no bearer")
}

func TestGenerateSQLRequestBodyIsStable(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/generate_sql"] = `{"GeneratedSQL": "SELECT 1"}`

	c := backend.New(srv.URL)
	for i := 0; i < 2; i++ {
		_, err := c.GenerateSQL(context.Background(), "same question", "db")
		require.NoError(t, err)
	}

	reqs := fb.all()
	require.Len(t, reqs, 2)
	assert.Equal(t, reqs[0].Body, reqs[1].Body)
}

func TestGenerateSQLEmpty(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/generate_sql"] = `{"GeneratedSQL": ""}`

	sql, err := backend.New(srv.URL).GenerateSQL(context.Background(), "asdkjasd", "db")
	require.NoError(t, err)
	assert.Empty(t, sql)
}

func TestHTTPErrorBecomesBoundaryError(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/generate_sql"] = `{"detail": "model overloaded"}`
	fb.status["/generate_sql"] = http.StatusBadGateway

	_, err := backend.New(srv.URL).GenerateSQL(context.Background(), "q", "db")
	require.Error(t, err)

	var be *models.BoundaryError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, models.KindBackend, be.Kind)
	assert.Equal(t, backend.OpGenerateSQL, be.Op)
	assert.Equal(t, http.StatusBadGateway, be.StatusCode)
	assert.Contains(t, be.Error(), "model overloaded")
	assert.ErrorIs(t, err, models.ErrBackend)
}

func TestNetworkErrorBecomesBoundaryError(t *testing.T) {
	_, srv := newFakeBackend(t)
	srv.Close()

	_, err := backend.New(srv.URL).NaturalResponse(context.Background(), "q", "db")
	assert.ErrorIs(t, err, models.ErrBackend)
}

func TestMalformedJSONBecomesBoundaryError(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/natural_response"] = `not json`

	_, err := backend.New(srv.URL).NaturalResponse(context.Background(), "q", "db")
	assert.ErrorIs(t, err, models.ErrBackend)
}

func TestBearerTokenIsFetchedPerCall(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/generate_sql"] = `{"GeneratedSQL": "SELECT 1"}`
	fb.replies["/natural_response"] = `{"NaturalResponse": "ok"}`

	var n int
	provider := identity.ProviderFunc(func(context.Context) (string, error) {
		n++
		return fmt.Sprintf("token-%d", n), nil
	})
	c := backend.New(srv.URL, backend.WithIdentity(provider))
	assert.True(t, c.Authenticated())

	_, err := c.GenerateSQL(context.Background(), "q", "db")
	require.NoError(t, err)
	_, err = c.NaturalResponse(context.Background(), "q", "db")
	require.NoError(t, err)
	_, err = c.GenerateSQL(context.Background(), "q", "db")
	require.NoError(t, err)

	reqs := fb.all()
	require.Len(t, reqs, 3)
	for i, r := range reqs {
		assert.Equal(t, fmt.Sprintf("Bearer token-%d", i+1), r.Auth)
	}
}

func TestIdentityFailureSkipsCall(t *testing.T) {
	fb, srv := newFakeBackend(t)
	provider := identity.ProviderFunc(func(context.Context) (string, error) {
		return "", errors.New("no credentials")
	})

	_, err := backend.New(srv.URL, backend.WithIdentity(provider)).GenerateSQL(context.Background(), "q", "db")
	assert.ErrorIs(t, err, models.ErrIdentity)
	assert.Equal(t, models.KindIdentity, models.KindOf(err))
	assert.Empty(t, fb.all())
}

type invalidatingProvider struct {
	invalidated bool
}

func (p *invalidatingProvider) Token(context.Context) (string, error) { return "stale", nil }
func (p *invalidatingProvider) Invalidate()                           { p.invalidated = true }

func TestUnauthorizedInvalidatesCachedToken(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.status["/generate_sql"] = http.StatusUnauthorized

	p := &invalidatingProvider{}
	_, err := backend.New(srv.URL, backend.WithIdentity(p)).GenerateSQL(context.Background(), "q", "db")
	assert.ErrorIs(t, err, models.ErrBackend)
	assert.True(t, p.invalidated)
}

func TestGenerateChart(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/generate_viz"] = `{"GeneratedChartjs": {"chart_div": "drawA()", "chart_div_1": "drawB()"}}`

	records := []byte(`[{"count":42}]`)
	spec, err := backend.New(srv.URL).GenerateChart(context.Background(), "q", "SELECT 1", records)
	require.NoError(t, err)
	assert.Equal(t, &models.ChartSpec{ChartDiv: "drawA()", ChartDiv1: "drawB()"}, spec)

	var body models.GenerateVizRequest
	require.NoError(t, json.Unmarshal([]byte(fb.last().Body), &body))
	assert.Equal(t, "q", body.UserQuestion)
	assert.Equal(t, "SELECT 1", body.SQLGenerated)
	assert.Equal(t, string(records), body.SQLResults)
}

func TestGenerateChartMissingField(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/generate_viz"] = `{}`

	_, err := backend.New(srv.URL).GenerateChart(context.Background(), "q", "SELECT 1", []byte(`[]`))
	assert.ErrorIs(t, err, models.ErrBackend)
}

func TestListDatabasesAcceptsEmbeddedRecords(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/available_databases"] = `{"KnownDB": "[{\"table_schema\":\"sales\"},{\"table_schema\":\"hr\"}]"}`

	res, err := backend.New(srv.URL).ListDatabases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, fb.last().Method)
	assert.Empty(t, fb.last().Body)
	assert.Equal(t, []string{"table_schema"}, res.Columns)
	assert.Equal(t, []interface{}{"sales", "hr"}, res.Column("table_schema"))
}

func TestKnownSQL(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/get_known_sql"] = `{"KnownSQL": [{"example_user_question":"how many clients?","example_generated_sql":"SELECT 1"}]}`

	res, err := backend.New(srv.URL).KnownSQL(context.Background(), "sales")
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_database":"sales"}`, fb.last().Body)
	assert.Equal(t, 1, res.RowCount())
	assert.Equal(t, []string{"example_user_question", "example_generated_sql"}, res.Columns)
}

func TestRunQueryFieldFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"distinct field", `{"QueryResult": [{"count": 42}]}`},
		{"legacy field", `{"KnownDB": "[{\"count\": 42}]"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, srv := newFakeBackend(t)
			fb.replies["/run_query"] = tt.reply

			res, err := backend.New(srv.URL).RunQuery(context.Background(), "sales", "SELECT COUNT(*) AS count FROM clients")
			require.NoError(t, err)
			assert.JSONEq(t, `{"user_database":"sales","generated_sql":"SELECT COUNT(*) AS count FROM clients"}`, fb.last().Body)
			assert.Equal(t, []interface{}{int64(42)}, res.Column("count"))
		})
	}
}

func TestEmbedSQL(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/embed_sql"] = `{"ResponseCode": 201}`

	err := backend.New(srv.URL).EmbedSQL(context.Background(), "q", "SELECT 1", "sales")
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_question":"q","generated_sql":"SELECT 1","user_database":"sales"}`, fb.last().Body)

	fb.status["/embed_sql"] = http.StatusInternalServerError
	assert.ErrorIs(t, backend.New(srv.URL).EmbedSQL(context.Background(), "q", "SELECT 1", "sales"), models.ErrBackend)
}

func TestEndpointOverrides(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.replies["/v2/sql"] = `{"GeneratedSQL": "SELECT 2"}`

	c := backend.New(srv.URL+"/", backend.WithEndpoints(config.Endpoints{GenerateSQL: "v2/sql"}))
	sql, err := c.GenerateSQL(context.Background(), "q", "db")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", sql)
	assert.Equal(t, "/v2/sql", fb.last().Path)
}
