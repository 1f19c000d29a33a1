package render

import (
	"fmt"

	"github.com/cortexai/datachat/internal/models"
)

// ChartLoaderURL is the Google Charts loader every chart fragment expects.
const ChartLoaderURL = "https://www.gstatic.com/charts/loader.js"

// Div ids the backend's chart fragments draw into.
const (
	PrimaryChartDiv   = "chart_div"
	SecondaryChartDiv = "chart_div_1"
)

const chartDocumentTmpl = `<html>
  <head>
    <script type="text/javascript" src="%s"></script>
    <script type="text/javascript">
%s
    </script>
  </head>
  <body>
    <div id="%s"></div>
  </body>
</html>`

// ChartDocument wraps a chart fragment in a standalone HTML document that
// loads the chart library and provides the div the fragment draws into. The
// fragment is inserted verbatim.
func ChartDocument(fragment, divID string) string {
	return fmt.Sprintf(chartDocumentTmpl, ChartLoaderURL, fragment, divID)
}

// ChartDocuments returns the primary and secondary chart documents, or nil
// when spec is nil.
func ChartDocuments(spec *models.ChartSpec) []string {
	if spec == nil {
		return nil
	}
	return []string{
		ChartDocument(spec.ChartDiv, PrimaryChartDiv),
		ChartDocument(spec.ChartDiv1, SecondaryChartDiv),
	}
}
