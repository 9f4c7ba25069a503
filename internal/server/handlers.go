package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/cutaway/internal/models"
	"github.com/hyperjump/cutaway/internal/search"
	"github.com/hyperjump/cutaway/internal/storage"
	"github.com/hyperjump/cutaway/internal/store"
	"github.com/hyperjump/cutaway/internal/validate"
	"github.com/hyperjump/cutaway/pkg/utils"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.SearchQuery{
		Query: q.Get("q"),
		Scope: models.Scope(q.Get("scope")),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		query.Limit = limit
	}
	if err := search.ProcessQuery(&query); err != nil {
		s.observeSearch(string(query.Scope), 0, 0, err)
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request",
		zap.String("query", query.Query),
		zap.String("scope", string(query.Scope)),
		zap.Int("limit", query.Limit))

	start := time.Now()
	response, err := s.live.Current().Engine.Run(&query)
	total := 0
	if response != nil {
		total = response.Total
	}
	s.observeSearch(string(query.Scope), total, time.Since(start), err)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) observeSearch(scope string, results int, took time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.ObserveSearch(scope, results, took, err)
	}
}

type gagListResponse struct {
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Gags   []models.Gag `json:"gags"`
}

func (s *Server) handleListGags(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	db := s.live.Current()
	var gags []models.Gag
	if owner := r.URL.Query().Get("owner"); owner != "" {
		gags = db.Engine.ByOwner(owner)
	} else {
		gags = db.All()
	}
	resp := gagListResponse{Total: len(gags), Offset: offset, Gags: []models.Gag{}}
	if offset < len(gags) {
		resp.Gags = utils.Head(gags[offset:], limit)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGag(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	// chi routes on RawPath when it is set, leaving the parameter escaped.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(title); err == nil {
			title = unescaped
		}
	}
	g, ok := s.live.Current().Store.Get(title)
	if !ok {
		s.respondError(w, http.StatusNotFound, "gag not found")
		return
	}
	s.respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleAbsurdist(w http.ResponseWriter, r *http.Request) {
	gags := s.live.Current().FindNonMain()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"total": len(gags), "gags": gags})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.live.Current().Validate())
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	opts := validate.AnalyzeOptions{SparseSeasonThreshold: s.config.Analysis.SparseSeasonThreshold}
	if v := r.URL.Query().Get("sparse_threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid sparse_threshold")
			return
		}
		opts.SparseSeasonThreshold = n
	}
	s.respondJSON(w, http.StatusOK, s.live.Current().Analyze(opts))
}

type missingResponse struct {
	Keywords []models.KeywordHits `json:"keywords"`
	Union    []string             `json:"union"`
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query()["keyword"]
	if len(keywords) == 0 {
		keywords = s.config.Analysis.KnownMissing
	}
	hits, err := s.live.Current().Investigate(r.Context(), keywords)
	if err != nil {
		s.logger.Error("missing gag investigation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, missingResponse{Keywords: hits, Union: validate.UnionTitles(hits)})
}

type statusResponse struct {
	Gags           int               `json:"gags"`
	IndexTokens    int               `json:"index_tokens"`
	LoadedAt       time.Time         `json:"loaded_at"`
	GagsDir        string            `json:"gags_dir"`
	MainCharacters []string          `json:"main_characters"`
	Load           *store.LoadReport `json:"load"`
	Disk           *storage.Usage    `json:"disk,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	db := s.live.Current()
	resp := statusResponse{
		Gags:           db.Store.Count(),
		IndexTokens:    db.Index.Len(),
		LoadedAt:       db.LoadedAt,
		GagsDir:        s.config.GagsDir,
		MainCharacters: db.Cast.Names(),
		Load:           db.Report,
	}
	if usage, err := storage.DiskUsage(s.config.GagsDir); err == nil {
		resp.Disk = &usage
	} else {
		s.logger.Debug("status: disk usage failed", zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	db, err := s.live.Reload()
	if err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, db.Report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryInt parses a non-negative integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative value")
	}
	return n, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
