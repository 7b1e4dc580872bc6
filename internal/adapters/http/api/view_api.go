package api

import (
	"encoding/json"
	"net/http"

	service "github.com/okian/rankplot/internal/app"
	"github.com/okian/rankplot/internal/domain/encoding"
	"github.com/okian/rankplot/internal/domain/model"
	"github.com/okian/rankplot/internal/domain/types"
)

type selectRequest struct {
	Field string `json:"field"`
}

func frameResponse(f service.Frame) types.Frame {
	return types.Frame{
		ID:           f.ID,
		Revision:     f.Revision,
		XDescription: f.XDesc,
		YDescription: f.YDesc,
		Encoding:     types.FromResult(f.Result),
	}
}

// handleGetView handles GET /api/view.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, frameResponse(s.view.Frame()))
}

// handlePutView handles PUT /api/view/{axis} with body {"field": "<F>"}.
func (s *Server) handlePutView(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_view"
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	f, err := s.view.SetField(r.Context(), r.PathValue("axis"), req.Field)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, frameResponse(f))
}

// handleEncode handles GET /api/encode?x=&y=. The selection is not changed.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	const op = "api.encode"
	x, y, err := s.fields(r)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	res, err := s.view.Encode(r.Context(), x, y)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromResult(res))
}

// handleFields handles GET /api/fields.
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := model.Fields()
	out := make([]types.Field, len(fields))
	for i, f := range fields {
		d, _ := service.Describe(f)
		out[i] = types.Field{Name: f.String(), Description: d}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleField handles GET /api/fields/{field}.
func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_field"
	f, err := model.ParseField(r.PathValue("field"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	d, err := service.Describe(f)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.Field{Name: f.String(), Description: d})
}

// handleLegend handles GET /api/legend.
func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	legend := service.Legend()
	out := make([]types.LegendEntry, len(legend))
	for i, e := range legend {
		out[i] = types.LegendEntry{Bucket: e.Bucket.Name(), Name: e.Name, Color: e.Color}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSummary handles GET /api/summary?x=&y=.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	x, y, err := s.fields(r)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	res, err := s.view.Encode(r.Context(), x, y)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromSummary(res, encoding.Summarize(res)))
}
