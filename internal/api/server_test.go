package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/gridpath/internal/api"
	"github.com/katalvlaran/gridpath/internal/config"
	"github.com/katalvlaran/gridpath/internal/storage"
	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// testConfig is the default config with zero playback delays.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Playback.VisitedDelay = 0
	cfg.Playback.PathDelay = 0
	cfg.Playback.BacktrackDelay = 0
	return cfg
}

type ServerSuite struct {
	suite.Suite
	srv *httptest.Server
}

func (s *ServerSuite) SetupTest() {
	h := api.NewServer(testConfig(), storage.NewMemory(), nil, api.WithClock(func() time.Time { return fixedNow }))
	s.srv = httptest.NewServer(h)
}

func (s *ServerSuite) TearDownTest() { s.srv.Close() }

// do sends body as JSON and decodes the response into out when non-nil.
func (s *ServerSuite) do(method, path string, body any, out any) int {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func openSearch(alg string) map[string]any {
	return map[string]any{
		"gridType":  "Square",
		"gridSize":  3,
		"start":     map[string]int{"row": 0, "col": 0},
		"end":       map[string]int{"row": 2, "col": 2},
		"algorithm": alg,
	}
}

func (s *ServerSuite) TestHealth() {
	var body map[string]string
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", nil, &body))
	s.Equal("ok", body["status"])
}

func (s *ServerSuite) TestSearch_OpenGrid() {
	var resp api.SearchResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/search", openSearch("A*"), &resp))

	s.True(resp.Found)
	s.Equal(search.AStar, resp.Algorithm)
	s.Equal(5, resp.PathLength)
	s.EqualValues(4, resp.TotalCost)
	s.Equal(96.0, resp.Score)
	s.Empty(resp.Note)
	s.Equal(topology.Square, resp.GridType)
	s.Equal(3, resp.GridSize)
	s.Len(resp.Rows, 3)
	s.Equal(topology.Position{Row: 0, Col: 0}, resp.Path[0])
	s.Equal(topology.Position{Row: 2, Col: 2}, resp.Path[len(resp.Path)-1])
}

func (s *ServerSuite) TestSearch_WalledOff() {
	req := map[string]any{
		"gridType":  "Square",
		"rows":      [][]string{{"empty", "wall", "empty"}, {"wall", "wall", "empty"}, {"empty", "empty", "empty"}},
		"start":     map[string]int{"row": 0, "col": 0},
		"end":       map[string]int{"row": 2, "col": 2},
		"algorithm": "Dijkstra",
	}
	var resp api.SearchResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/search", req, &resp))
	s.False(resp.Found)
	s.Equal(report.NoPathNote, resp.Note)
	s.Empty(resp.Path)
	s.Zero(resp.Score)
}

func (s *ServerSuite) TestSearch_BadRequests() {
	with := func(k string, v any) map[string]any {
		req := openSearch("BFS")
		if v == nil {
			delete(req, k)
		} else {
			req[k] = v
		}
		return req
	}
	cases := map[string]any{
		"malformed body":         "not an object",
		"missing start":          with("start", nil),
		"missing end":            with("end", nil),
		"missing algorithm":      with("algorithm", nil),
		"unknown algorithm":      with("algorithm", "DFS"),
		"unknown shape":          with("gridType", "Octagon"),
		"degenerate":             with("gridSize", 0),
		"start off grid":         with("start", map[string]int{"row": 5, "col": 0}),
		"unknown table":          with("costTable", "nope"),
		"unknown policy":         with("policy", "nope"),
		"unknown obstacle level": with("obstacles", map[string]any{"level": "Extreme", "fill": "Wall"}),
	}
	for name, body := range cases {
		var out map[string]string
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/search", body, &out), name)
		s.NotEmpty(out["error"], name)
	}

	var out map[string]string
	save := with("algorithm", nil)
	save["uid"], save["name"] = "u1", "no algorithm"
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/results", save, &out))
	s.Contains(out["error"], "algorithm")
}

// Rows echoed back from an earlier response carry that response's markers;
// a new search on them uses only the endpoints it names.
func (s *ServerSuite) TestSearch_ResubmittedRowsMoveMarkers() {
	var first api.SearchResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/search", openSearch("BFS"), &first))

	req := map[string]any{
		"gridType":  "Square",
		"rows":      first.Rows,
		"start":     map[string]int{"row": 2, "col": 0},
		"end":       map[string]int{"row": 0, "col": 2},
		"algorithm": "BFS",
	}
	var second api.SearchResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/search", req, &second))
	s.Require().True(second.Found)
	s.Equal(topology.Position{Row: 2, Col: 0}, second.Path[0])
	s.Equal(topology.Position{Row: 0, Col: 2}, second.Path[len(second.Path)-1])

	count := map[terrain.Kind]int{}
	for _, row := range second.Rows {
		for _, k := range row {
			count[k]++
		}
	}
	s.Equal(1, count[terrain.Start])
	s.Equal(1, count[terrain.End])
	s.Equal(terrain.Empty, second.Rows[0][0])
	s.Equal(terrain.Empty, second.Rows[2][2])
}

func (s *ServerSuite) TestSearch_SeededObstaclesAreReproducible() {
	req := openSearch("BFS")
	req["gridSize"] = 10
	req["end"] = map[string]int{"row": 9, "col": 9}
	req["obstacles"] = map[string]any{"level": "Medium", "fill": "Wall", "seed": 42}

	var a, b api.SearchResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/search", req, &a))
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/search", req, &b))
	s.Equal(a.Rows, b.Rows)
	s.Equal(a.Visited, b.Visited)

	walls := 0
	for _, row := range a.Rows {
		for _, k := range row {
			if k.String() == "wall" {
				walls++
			}
		}
	}
	s.Equal(20, walls)
}

func (s *ServerSuite) TestMaze() {
	var open api.SearchResponse
	req := map[string]any{"size": 6, "kind": "wall", "chance": 0, "seed": 7, "algorithm": "Dijkstra"}
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/maze", req, &open))
	s.Require().True(open.Found)
	s.Equal(7, open.PathLength)
	s.EqualValues(6, open.TotalCost)
	s.Equal(94.0, open.Score)
	s.Equal(topology.Position{Row: 1, Col: 1}, open.Path[0])
	s.Equal(topology.Position{Row: 4, Col: 4}, open.Path[len(open.Path)-1])
	walls := 0
	for _, row := range open.Rows {
		for _, k := range row {
			if k == terrain.Wall {
				walls++
			}
		}
	}
	s.Equal(20, walls, "only the border is walled")

	// A solid interior is still crossed on the soft table, at a price.
	var solid api.SearchResponse
	req["chance"] = 1
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/maze", req, &solid))
	s.True(solid.Found)
	s.EqualValues(51, solid.TotalCost)
	s.Equal(49.0, solid.Score)

	bad := map[string]map[string]any{
		"too small":    {"size": 3, "kind": "wall", "algorithm": "BFS"},
		"chance":       {"size": 6, "kind": "wall", "chance": 1.5, "algorithm": "BFS"},
		"not obstacle": {"size": 6, "kind": "empty", "algorithm": "BFS"},
		"no algorithm": {"size": 6, "kind": "wall"},
	}
	for name, body := range bad {
		var out map[string]string
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/maze", body, &out), name)
		s.NotEmpty(out["error"], name)
	}
}

func (s *ServerSuite) TestResults_ListByName() {
	for _, v := range []struct{ name, alg string }{{"cmp", "BFS"}, {"cmp", "Dijkstra"}, {"other", "BFS"}} {
		save := openSearch(v.alg)
		save["uid"], save["name"] = "u1", v.name
		s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/results", save, nil))
	}

	var list []report.Record
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/results?uid=u1&name=cmp", nil, &list))
	s.Require().Len(list, 2)
	algs := []search.Algorithm{list[0].Algorithm, list[1].Algorithm}
	s.ElementsMatch([]search.Algorithm{search.BFS, search.Dijkstra}, algs)
	for _, rec := range list {
		s.Equal("cmp", rec.Name)
	}

	var none []report.Record
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/results?uid=u1&name=missing", nil, &none))
	s.NotNil(none)
	s.Empty(none)
}

func (s *ServerSuite) TestResults_SaveListGetRender() {
	save := openSearch("BFS")
	save["uid"] = "u1"
	save["name"] = "  first run  "

	var rec report.Record
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/results", save, &rec))
	s.NotEmpty(rec.ID)
	s.Equal("first run", rec.Name)
	s.Equal("u1", rec.UserID)
	s.Equal(search.BFS, rec.Algorithm)
	s.Equal(5, rec.PathLength)
	s.Equal(fixedNow.Format(report.TimeLayout), rec.CreatedAt)

	// Same name and algorithm is taken; another algorithm is not.
	var dup map[string]string
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/api/results", save, &dup))
	s.NotEmpty(dup["error"])
	save["algorithm"] = "Dijkstra"
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/results", save, nil))

	var list []report.Record
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/results?uid=u1", nil, &list))
	s.Len(list, 2)
	var empty []report.Record
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/results?uid=nobody", nil, &empty))
	s.NotNil(empty)
	s.Empty(empty)

	var got report.Record
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/results/"+rec.ID, nil, &got))
	s.Equal(rec, got)

	var render struct {
		ID       string     `json:"id"`
		GridType string     `json:"gridType"`
		GridSize int        `json:"gridSize"`
		Marks    [][]string `json:"marks"`
	}
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/results/"+rec.ID+"/render", nil, &render))
	s.Equal(rec.ID, render.ID)
	s.Equal("Square", render.GridType)
	s.Require().Len(render.Marks, 3)
	s.Equal("start", render.Marks[0][0])
	s.Equal("end", render.Marks[2][2])
	path := 0
	for _, row := range render.Marks {
		for _, m := range row {
			if m == "path" {
				path++
			}
		}
	}
	s.Equal(3, path)
}

func (s *ServerSuite) TestResults_Errors() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/results", nil, nil))
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/results/missing", nil, nil))
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/results/missing/render", nil, nil))

	noName := openSearch("BFS")
	noName["uid"] = "u1"
	noName["name"] = "   "
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/results", noName, nil))

	noUID := openSearch("BFS")
	noUID["name"] = "x"
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/results", noUID, nil))

	blocked := map[string]any{
		"uid":       "u1",
		"name":      "blocked",
		"rows":      [][]string{{"empty", "wall"}, {"wall", "empty"}},
		"start":     map[string]int{"row": 0, "col": 0},
		"end":       map[string]int{"row": 1, "col": 1},
		"algorithm": "BFS",
	}
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/results", blocked, nil))
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func TestNewServer_MethodNotAllowed(t *testing.T) {
	h := api.NewServer(testConfig(), storage.NewMemory(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
