// Package report renders the final set of similar-image pairs. The
// core produces the pairs; this package only formats them.
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"

	"similarimages/types"
)

// DefaultHTMLReportFile is where the HTML report lands when no path is
// given.
const DefaultHTMLReportFile = "report.html"

// pairView is one table row: both sides of a pair with the resolved
// absolute path used for the file:// image link.
type pairView struct {
	LeftPath  string
	LeftAbs   string
	RightPath string
	RightAbs  string
}

var htmlReport = template.Must(template.New("report").Parse(`<!doctype html>
<html>
	<head>
		<title>Similar Images</title>
		<style>
			body {
				font-family: Arial
			}
			table, td {
				border: 1px solid black;
				text-align: center;
				padding: 10px;
			}
		</style>
	</head>
	<body>
		<h1>Similar Images Report</h1>
		<table width='100%'>
{{- range .}}
			<tr>
				<td>
					<img src='file://{{.LeftAbs}}' height='400' />
					<br />
					{{.LeftPath}}
				</td>
				<td>
					<img src='file://{{.RightAbs}}' height='400' />
					<br />
					{{.RightPath}}
				</td>
			</tr>
{{- end}}
		</table>
	</body>
</html>
`))

// WriteHTML renders the pairs as an HTML table with embedded image
// previews.
func WriteHTML(w io.Writer, pairs []types.MatchPair) error {
	views := make([]pairView, len(pairs))
	for i, p := range pairs {
		views[i] = pairView{
			LeftPath:  p.Left,
			LeftAbs:   types.CanonicalizePath(p.Left),
			RightPath: p.Right,
			RightAbs:  types.CanonicalizePath(p.Right),
		}
	}
	return htmlReport.Execute(w, views)
}

// SaveHTML writes the HTML report to the given path.
func SaveHTML(path string, pairs []types.MatchPair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create HTML report %s: %v", path, err)
	}
	defer f.Close()
	return WriteHTML(f, pairs)
}

// jsonReport is the envelope of the JSON sink: the pair set plus a
// count, so an empty-but-successful run is distinguishable at a glance.
type jsonReport struct {
	Pairs []types.MatchPair `json:"pairs"`
	Count int               `json:"count"`
}

// WriteJSON renders the pairs as a JSON document.
func WriteJSON(w io.Writer, pairs []types.MatchPair) error {
	if pairs == nil {
		pairs = []types.MatchPair{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Pairs: pairs, Count: len(pairs)})
}

// SaveJSON writes the JSON report to the given path.
func SaveJSON(path string, pairs []types.MatchPair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create JSON report %s: %v", path, err)
	}
	defer f.Close()
	return WriteJSON(f, pairs)
}
