package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"similarimages/types"
)

func TestWriteHTML(t *testing.T) {
	pairs := []types.MatchPair{
		types.NewMatchPair("/photos/a.png", "/photos/b.png"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, pairs))

	html := buf.String()
	assert.Contains(t, html, "<title>Similar Images</title>")
	assert.Contains(t, html, "Similar Images Report")
	assert.Contains(t, html, "/photos/a.png")
	assert.Contains(t, html, "/photos/b.png")
	assert.Equal(t, 2, strings.Count(html, "file://"))
}

func TestWriteHTMLEmptyPairs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, nil))
	assert.NotContains(t, buf.String(), "<tr>")
}

func TestWriteJSON(t *testing.T) {
	pairs := []types.MatchPair{
		types.NewMatchPair("b.png", "a.png"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, pairs))

	var decoded struct {
		Pairs []types.MatchPair `json:"pairs"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Count)
	assert.Equal(t, "a.png", decoded.Pairs[0].Left)
	assert.Equal(t, "b.png", decoded.Pairs[0].Right)
}

func TestWriteJSONEmptyIsStillValid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))

	var decoded struct {
		Pairs []types.MatchPair `json:"pairs"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Zero(t, decoded.Count)
	assert.NotNil(t, decoded.Pairs)
}
