// Package backend is the HTTP client for the remote NL-to-SQL service.
//
// Every operation posts a small JSON body to the configured base URL plus a
// fixed path and unwraps a single response field. Failures are logged and
// returned as *models.BoundaryError; the client never retries.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cortexai/datachat/internal/config"
	"github.com/cortexai/datachat/internal/identity"
	"github.com/cortexai/datachat/internal/models"
	"github.com/rs/zerolog/log"
)

// Operation names, used in logs and errors.
const (
	OpListDatabases   = "available_databases"
	OpKnownSQL        = "get_known_sql"
	OpGenerateSQL     = "generate_sql"
	OpRunQuery        = "run_query"
	OpEmbedSQL        = "embed_sql"
	OpNaturalResponse = "natural_response"
	OpGenerateViz     = "generate_viz"
)

const errorSnippetBytes = 512

// Client calls the backend. The zero Client is not usable; use New.
type Client struct {
	baseURL string
	paths   config.Endpoints
	http    *http.Client
	tokens  identity.Provider
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithEndpoints overrides per-operation paths. Empty entries keep defaults.
func WithEndpoints(e config.Endpoints) Option {
	return func(c *Client) { c.paths = e.Resolved() }
}

// WithIdentity attaches "Authorization: Bearer <token>" to every call, with
// the token taken from p at call time.
func WithIdentity(p identity.Provider) Option {
	return func(c *Client) { c.tokens = p }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		paths:   config.Endpoints{}.Resolved(),
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Authenticated reports whether calls carry an identity token.
func (c *Client) Authenticated() bool { return c.tokens != nil }

// TestConnection checks that the backend answers the database listing.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.ListDatabases(ctx)
	return err
}

// ListDatabases returns the databases known to the backend's vector store.
func (c *Client) ListDatabases(ctx context.Context) (*models.QueryResult, error) {
	var resp models.KnownDBResponse
	if err := c.do(ctx, OpListDatabases, http.MethodGet, c.paths.AvailableDatabases, nil, &resp); err != nil {
		return nil, err
	}
	return c.records(OpListDatabases, resp.KnownDB)
}

// KnownSQL returns previously embedded question/SQL pairs for database.
func (c *Client) KnownSQL(ctx context.Context, database string) (*models.QueryResult, error) {
	var resp models.KnownSQLResponse
	req := models.KnownSQLRequest{UserDatabase: database}
	if err := c.do(ctx, OpKnownSQL, http.MethodPost, c.paths.KnownSQL, req, &resp); err != nil {
		return nil, err
	}
	return c.records(OpKnownSQL, resp.KnownSQL)
}

// GenerateSQL translates question into SQL for database. An empty string
// with a nil error means the backend produced no SQL.
func (c *Client) GenerateSQL(ctx context.Context, question, database string) (string, error) {
	var resp models.GenerateSQLResponse
	req := models.GenerateSQLRequest{UserQuestion: question, UserDatabase: database}
	if err := c.do(ctx, OpGenerateSQL, http.MethodPost, c.paths.GenerateSQL, req, &resp); err != nil {
		return "", err
	}
	return resp.GeneratedSQL, nil
}

// RunQuery executes sql through the backend's own execution endpoint.
func (c *Client) RunQuery(ctx context.Context, database, sql string) (*models.QueryResult, error) {
	var resp models.RunQueryResponse
	req := models.RunQueryRequest{UserDatabase: database, GeneratedSQL: sql}
	if err := c.do(ctx, OpRunQuery, http.MethodPost, c.paths.RunQuery, req, &resp); err != nil {
		return nil, err
	}
	raw := resp.QueryResult
	if len(raw) == 0 {
		raw = resp.KnownDB
	}
	return c.records(OpRunQuery, raw)
}

// EmbedSQL stores a question/SQL pair the user marked as correct.
func (c *Client) EmbedSQL(ctx context.Context, question, sql, database string) error {
	req := models.EmbedSQLRequest{UserQuestion: question, GeneratedSQL: sql, UserDatabase: database}
	return c.do(ctx, OpEmbedSQL, http.MethodPost, c.paths.EmbedSQL, req, nil)
}

// NaturalResponse asks the backend for a prose answer to question.
func (c *Client) NaturalResponse(ctx context.Context, question, database string) (string, error) {
	var resp models.NaturalResponseResponse
	req := models.NaturalResponseRequest{UserQuestion: question, UserDatabase: database}
	if err := c.do(ctx, OpNaturalResponse, http.MethodPost, c.paths.NaturalResponse, req, &resp); err != nil {
		return "", err
	}
	return resp.NaturalResponse, nil
}

// GenerateChart asks for the two chart fragments describing records, the
// row-oriented JSON of the result set sql produced.
func (c *Client) GenerateChart(ctx context.Context, question, sql string, records []byte) (*models.ChartSpec, error) {
	var resp models.GenerateVizResponse
	req := models.GenerateVizRequest{
		UserQuestion: question,
		SQLGenerated: sql,
		SQLResults:   string(records),
	}
	if err := c.do(ctx, OpGenerateViz, http.MethodPost, c.paths.GenerateViz, req, &resp); err != nil {
		return nil, err
	}
	if resp.GeneratedChartjs == nil {
		return nil, c.fail(OpGenerateViz, c.paths.GenerateViz, 0, errors.New("response has no GeneratedChartjs"))
	}
	return resp.GeneratedChartjs, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return c.fail(op, path, 0, fmt.Errorf("encode request: %w", err))
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return c.fail(op, path, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			be := models.NewBoundaryError(models.KindIdentity, op, err)
			logFailure(be, path)
			return be
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(op, path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetBytes))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			if inv, ok := c.tokens.(identity.Invalidator); ok {
				inv.Invalidate()
			}
		}
		return c.fail(op, path, resp.StatusCode, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(snippet))))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(op, path, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) records(op string, raw json.RawMessage) (*models.QueryResult, error) {
	res, err := models.ParseRecords(raw)
	if err != nil {
		return nil, c.fail(op, "", 0, err)
	}
	return res, nil
}

func (c *Client) fail(op, path string, status int, err error) error {
	be := &models.BoundaryError{Kind: models.KindBackend, Op: op, StatusCode: status, Err: err}
	logFailure(be, path)
	return be
}

func logFailure(be *models.BoundaryError, path string) {
	log.Warn().
		Str("kind", string(be.Kind)).
		Str("op", be.Op).
		Str("path", path).
		Int("status", be.StatusCode).
		Err(be.Err).
		Msg("backend call failed")
}
