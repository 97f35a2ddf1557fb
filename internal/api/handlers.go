package api

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/katalvlaran/gridpath/internal/storage"
	"github.com/katalvlaran/gridpath/obstacle"
	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// SearchResponse is an Annotated result plus the grid it was computed on.
type SearchResponse struct {
	report.Annotated
	GridType topology.Shape   `json:"gridType"`
	GridSize int              `json:"gridSize"`
	Rows     [][]terrain.Kind `json:"rows"`
}

// SaveRequest is a search to run and persist under Name for UserID.
type SaveRequest struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	SearchRequest
}

// RenderResponse is a saved path re-rendered as marks.
type RenderResponse struct {
	ID       string          `json:"id"`
	GridType topology.Shape  `json:"gridType"`
	GridSize int             `json:"gridSize"`
	Marks    [][]report.Mark `json:"marks"`
}

// MazeRequest generates a walled maze and searches it from (1,1) to
// (size-2,size-2) on the soft table, where every obstacle is passable at a
// price.
type MazeRequest struct {
	Size        int               `json:"size"`
	Kind        terrain.Kind      `json:"kind"`
	Chance      float64           `json:"chance"`
	Seed        int64             `json:"seed"`
	Algorithm   *search.Algorithm `json:"algorithm"`
	OverrideMud bool              `json:"overrideMud"`
}

func errDuplicate(name string, alg search.Algorithm) error {
	return fmt.Errorf("%w: %q with %s", storage.ErrDuplicate, name, alg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runSearch builds, searches and annotates req.
func (s *Server) runSearch(req *SearchRequest) (SearchResponse, error) {
	g, err := req.buildGrid()
	if err != nil {
		return SearchResponse{}, err
	}
	table, opts, err := req.options(s.cfg)
	if err != nil {
		return SearchResponse{}, err
	}
	res, err := search.Run(g, *req.Start, *req.End, *req.Algorithm, opts...)
	if err != nil {
		return SearchResponse{}, err
	}
	return SearchResponse{
		Annotated: report.Assemble(res, table),
		GridType:  g.Shape(),
		GridSize:  g.Size(),
		Rows:      g.Rows(),
	}, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.runSearch(&req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug("search.completed", "algorithm", resp.Algorithm.String(), "found", resp.Found,
		"visited", resp.VisitedCount, "cost", float64(resp.TotalCost))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMaze(w http.ResponseWriter, r *http.Request) {
	var req MazeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Algorithm == nil {
		s.writeError(w, r, badRequest(errors.New("algorithm is required")))
		return
	}
	g, start, end, err := obstacle.Maze(req.Size, req.Kind, req.Chance, rand.New(rand.NewSource(req.Seed)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	table, err := s.cfg.Table("soft")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := search.Run(g, start, end, *req.Algorithm,
		search.WithCostTable(table),
		search.WithPolicy(terrain.PolicyCostTable),
		search.WithOverrideMud(req.OverrideMud || s.cfg.Search.OverrideMud),
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := SearchResponse{
		Annotated: report.Assemble(res, table),
		GridType:  g.Shape(),
		GridSize:  g.Size(),
		Rows:      g.Rows(),
	}
	s.log.Debug("maze.completed", "size", req.Size, "seed", req.Seed, "found", resp.Found, "cost", float64(resp.TotalCost))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.UserID == "" {
		s.writeError(w, r, badRequest(errors.New("uid is required")))
		return
	}
	name, err := report.ValidateName(req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	taken, err := s.store.Exists(ctx, req.UserID, name, *req.Algorithm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if taken {
		s.writeError(w, r, errDuplicate(name, *req.Algorithm))
		return
	}

	resp, err := s.runSearch(&req.SearchRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := report.NewRecord(report.RecordInput{
		UserID:      req.UserID,
		Name:        name,
		GridSize:    resp.GridSize,
		GridType:    resp.GridType,
		OverrideMud: req.OverrideMud,
	}, resp.Annotated, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("result.saved", "id", rec.ID, "uid", rec.UserID, "algorithm", rec.Algorithm.String())
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		s.writeError(w, r, badRequest(errors.New("uid is required")))
		return
	}
	recs, err := s.store.List(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// ?name= narrows the list to one run saved under several algorithms.
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		kept := make([]report.Record, 0, len(recs))
		for _, rec := range recs {
			if rec.Name == name {
				kept = append(kept, rec)
			}
		}
		recs = kept
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRenderResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	marks, err := rec.Render()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{ID: rec.ID, GridType: rec.GridType, GridSize: rec.GridSize, Marks: marks})
}
