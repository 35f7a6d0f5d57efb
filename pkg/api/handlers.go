package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/osmtools/condroute/pkg/logging"
	"github.com/osmtools/condroute/pkg/restriction"
	"github.com/osmtools/condroute/pkg/route"
	"github.com/osmtools/condroute/pkg/timespec"
	"github.com/osmtools/condroute/pkg/validation"
)

// handleRoute answers POST /api/v1/route.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.RouteRequest
	rd := s.newRequestDecoder(w, r)
	if rd.DecodeJSON(&req).Validate(func() error { return validation.ValidateRouteRequest(&req) }).RespondError() {
		return
	}

	profile, err := route.ParseProfile(req.Profile)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	at := time.Now()
	if req.At != "" {
		at, err = timespec.ParseDateTime(req.At)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid departure time: "+req.At)
			return
		}
	}

	query := route.Query{
		Profile:       profile,
		At:            at,
		Weight:        req.WeightTonnes,
		Height:        req.HeightMeters,
		MaxExpansions: req.MaxExpansions,
	}

	start := time.Now()
	res, err := s.engine.ShortestPath(r.Context(), req.From, req.To, query)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "route query failed")
		return
	}

	status := "found"
	if len(res.Path) == 0 {
		status = "not_found"
	}
	s.registry.RecordRoute(profile.String(), status, time.Since(start), res.NodesExpanded, res.Cost)
	s.logger.Debug("route query",
		logging.Profile(profile.String()),
		logging.Int64("from", req.From),
		logging.Int64("to", req.To),
		logging.Int("expanded", res.NodesExpanded),
	)

	s.respondJSON(w, http.StatusOK, RouteResponse{
		Found:         len(res.Path) > 0,
		Path:          res.Path,
		Cost:          res.Cost,
		NodesExpanded: res.NodesExpanded,
		Profile:       profile.String(),
		At:            at.Format("2006-01-02 15:04"),
	})
}

// handleValidate answers POST /api/v1/validate.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.TagRequest
	rd := s.newRequestDecoder(w, r)
	if rd.DecodeJSON(&req).Validate(func() error { return validation.ValidateTagRequest(&req) }).RespondError() {
		return
	}

	result := restriction.Validate(req.Key, req.Value)
	resp := ValidateResponse{
		Valid:   result.Valid,
		Message: result.Message,
	}
	if !result.Valid {
		resp.Suggestion = restriction.SuggestFix(req.Value)
	}

	for _, d := range restriction.Lint(map[string]string{req.Key: req.Value}) {
		s.registry.RecordLintDiagnostic(strconv.Itoa(d.Code), d.Severity.String())
		resp.Diagnostics = append(resp.Diagnostics, DiagnosticResponse{
			Code:     d.Code,
			Severity: d.Severity.String(),
			TagKey:   d.TagKey,
			Message:  d.Message,
		})
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handleAffected answers GET /api/v1/affected.
func (s *Server) handleAffected(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req := validation.AffectedRequest{
		Profile: r.URL.Query().Get("profile"),
		At:      r.URL.Query().Get("at"),
	}
	if err := validation.ValidateAffectedRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := route.ParseProfile(req.Profile)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	at := time.Now()
	if req.At != "" {
		at, err = timespec.ParseDateTime(req.At)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid time: "+req.At)
			return
		}
	}

	start := time.Now()
	edges := s.engine.AffectedEdges(route.Query{Profile: profile, At: at})
	s.registry.RecordAffectedScan(time.Since(start))

	resp := AffectedResponse{
		Count:   len(edges),
		Profile: profile.String(),
		At:      at.Format("2006-01-02 15:04"),
		Edges:   make([]AffectedEdgeResponse, 0, len(edges)),
	}
	for _, e := range edges {
		descriptions := make([]string, len(e.Restrictions))
		for i, restr := range e.Restrictions {
			descriptions[i] = restr.Describe()
		}
		resp.Edges = append(resp.Edges, AffectedEdgeResponse{
			WayID:        e.WayID,
			From:         e.From,
			To:           e.To,
			Restrictions: descriptions,
		})
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handleHealth answers GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	g := s.store.Load()
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       s.version,
		Timestamp:     time.Now(),
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		Nodes:         g.NodeCount(),
		Edges:         g.EdgeCount(),
	})
}
