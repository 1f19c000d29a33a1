package render_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cortexai/datachat/internal/models"
	"github.com/cortexai/datachat/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartDocument(t *testing.T) {
	frag := `google.charts.load('current', {packages:['corechart']}); var s = "<b>&</b>";`
	doc := render.ChartDocument(frag, "chart_div")

	assert.Contains(t, doc, `<script type="text/javascript" src="https://www.gstatic.com/charts/loader.js"></script>`)
	assert.Contains(t, doc, frag, "fragment is injected verbatim")
	assert.Contains(t, doc, `<div id="chart_div"></div>`)
}

func TestChartDocuments(t *testing.T) {
	assert.Nil(t, render.ChartDocuments(nil))

	docs := render.ChartDocuments(&models.ChartSpec{ChartDiv: "drawA()", ChartDiv1: "drawB()"})
	require.Len(t, docs, 2)
	assert.Contains(t, docs[0], "drawA()")
	assert.Contains(t, docs[0], `id="chart_div"`)
	assert.Contains(t, docs[1], "drawB()")
	assert.Contains(t, docs[1], `id="chart_div_1"`)
}

func TestPageUsesLocaleLabels(t *testing.T) {
	r, err := render.New("DataChat", "pt", "/api/v1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, render.PageData{
		Turns: []models.Turn{
			{Role: models.RoleHuman, Content: "<script>alert(1)</script>"},
			{Role: models.RoleAssistant, Content: "Claro!"},
		},
		Questions:     []string{"quantos clientes temos?"},
		Authenticated: true,
	}))

	page := buf.String()
	assert.Contains(t, page, `placeholder="O que você está buscando?"`)
	assert.Contains(t, page, "Trabalhando...")
	assert.Contains(t, page, "quantos clientes temos?")
	assert.Contains(t, page, `action="/logout"`)
	assert.NotContains(t, page, "<script>alert(1)</script>", "turn content is escaped")
	assert.Contains(t, page, "Claro!")
}

func TestLoginPage(t *testing.T) {
	r, err := render.New("DataChat", "en", "/api/v1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Login(&buf, render.LoginData{Invalid: true}))
	assert.Contains(t, buf.String(), "Invalid access key.")
	assert.Contains(t, buf.String(), `action="/login"`)
	assert.NotContains(t, buf.String(), `action="/logout"`)
}

func TestLabelsFallback(t *testing.T) {
	assert.Equal(t, "Gráfico 1", render.LabelsFor("pt").Chart1)
	assert.Equal(t, "Dados", render.LabelsFor("pt").Data)
	assert.Equal(t, render.LabelsFor("en"), render.LabelsFor("de"))
}

func TestStaticAssets(t *testing.T) {
	srv := httptest.NewServer(render.Static())
	defer srv.Close()

	for _, name := range []string{"app.js", "style.css"} {
		res, err := http.Get(srv.URL + "/static/" + name)
		require.NoError(t, err)
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode, name)
		assert.False(t, strings.TrimSpace(string(body)) == "", name)
	}
}
