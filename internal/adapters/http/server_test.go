package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/internal/logging"
	"github.com/espalier-dev/espalier/pkg/adapters/memory"
	"github.com/espalier-dev/espalier/pkg/config"
	"github.com/espalier-dev/espalier/pkg/domain"
	"github.com/espalier-dev/espalier/pkg/ports"
)

func testGraph() *domain.Graph {
	ch := &domain.Node{
		ID: "ch1", Kind: domain.KindContainer, Type: "FlowFragment", DisplayName: "Chapter 1",
		InputPins: []domain.Pin{{
			ID: "in-ch1", Owner: "ch1",
			Connections: []domain.Connection{{TargetPin: "in-say1"}},
		}},
		OutputPins: []domain.Pin{{ID: "out-ch1", Owner: "ch1"}},
	}
	say := &domain.Node{
		ID: "say1", Kind: domain.KindDialogue, Type: "DialogueFragment", Parent: "ch1",
		Text:       "Welcome.",
		InputPins:  []domain.Pin{{ID: "in-say1", Owner: "say1"}},
		OutputPins: []domain.Pin{{ID: "out-say1", Owner: "say1"}},
	}
	return domain.NewGraph(
		[]*domain.Node{ch, say},
		[]string{"ch1"},
		map[string][]string{"ch1": {"say1"}},
		nil, nil,
	)
}

func testHandler(t *testing.T, g *domain.Graph) http.Handler {
	t.Helper()
	set := config.Defaults()
	set.PathArticyJSON = "unused.json"
	set.PathTargetDir = filepath.Join(t.TempDir(), "generated")
	pipe, err := espalier.New(&set, espalier.WithLoader(memory.NewLoader(g, "test")))
	require.NoError(t, err)
	return NewHandler(pipe, logging.NewNop())
}

func TestGetHealth(t *testing.T) {
	handler := testHandler(t, testGraph())

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "espalier", resp["app"])
	assert.NotEmpty(t, resp["version"])
	assert.Equal(t, "test", resp["source"])
}

func TestPostCompile(t *testing.T) {
	handler := testHandler(t, testGraph())

	req := httptest.NewRequest("POST", "/compile", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res espalier.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 5, res.Files)
	assert.False(t, res.DryRun)

	// The run shows up in the history.
	req = httptest.NewRequest("GET", "/runs", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var runs []ports.RunRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
}

func TestPostCompile_LoadFailure(t *testing.T) {
	handler := testHandler(t, nil)

	req := httptest.NewRequest("POST", "/compile", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "no graph loaded")
}

func TestPostValidate(t *testing.T) {
	handler := testHandler(t, testGraph())

	req := httptest.NewRequest("POST", "/validate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res espalier.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Diagnostics)
}

func TestGetReport(t *testing.T) {
	handler := testHandler(t, testGraph())

	req := httptest.NewRequest("GET", "/report", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "articy_chapter_1.rpy")
}

func TestGetGraph(t *testing.T) {
	handler := testHandler(t, testGraph())

	req := httptest.NewRequest("GET", "/graph.mmd", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "graph TD"))
	assert.Contains(t, rr.Body.String(), `subgraph ch1["Chapter 1"]`)
}

func TestGetRuns_BadLimit(t *testing.T) {
	handler := testHandler(t, testGraph())

	req := httptest.NewRequest("GET", "/runs?limit=bogus", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetrics(t *testing.T) {
	handler := testHandler(t, testGraph())

	req := httptest.NewRequest("POST", "/compile", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest("GET", "/metrics", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `espalier_compiles_total{status="ok"} 1`)
	assert.Contains(t, body, "espalier_diagnostics_total 1")
}
