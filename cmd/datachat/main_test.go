package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cortexai/datachat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, backendURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datachat.json")
	cfg := map[string]interface{}{
		"backend_url":      backendURL,
		"dataset_id":       "sales",
		"warehouse_driver": "backend",
		"locale":           "en",
		"log_level":        "error",
	}
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func backendStub(t *testing.T, sql string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/generate_sql":
			json.NewEncoder(w).Encode(map[string]string{"GeneratedSQL": sql})
		case "/run_query":
			io.WriteString(w, `{"QueryResult":[{"count":42}]}`)
		case "/generate_viz":
			io.WriteString(w, `{"GeneratedChartjs":{"chart_div":"a()","chart_div_1":"b()"}}`)
		case "/get_known_sql":
			io.WriteString(w, `{"KnownSQL":[{"example_user_question":"how many clients?"}]}`)
		case "/available_databases":
			io.WriteString(w, `{"KnownDB":[{"table_schema":"sales"}]}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestAskJSON(t *testing.T) {
	cfg := writeConfig(t, backendStub(t, "SELECT COUNT(*) AS count FROM clients").URL)

	out := run(t, "--config", cfg, "ask", "--json", "how", "many", "clients?")

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Succeeded)
	assert.Equal(t, "SELECT COUNT(*) AS count FROM clients", resp.SQL)
	assert.Equal(t, 2, resp.Turns)
}

func TestAskApology(t *testing.T) {
	cfg := writeConfig(t, backendStub(t, "").URL)
	out := run(t, "--config", cfg, "ask", "asdkjasd")
	assert.NotContains(t, out, "SELECT")
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestCatalogCommands(t *testing.T) {
	cfg := writeConfig(t, backendStub(t, "SELECT 1").URL)

	assert.Contains(t, run(t, "--config", cfg, "questions"), "how many clients?")
	assert.Contains(t, run(t, "--config", cfg, "databases"), "sales")
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"warehouse_driver":"backend"}`), 0o600))

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", path, "questions"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend_url")
}
