package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"github.com/KaramelBytes/tabclean/internal/chart"
	"github.com/KaramelBytes/tabclean/internal/clean"
	"github.com/KaramelBytes/tabclean/internal/export"
	"github.com/KaramelBytes/tabclean/internal/pipeline"
	"github.com/KaramelBytes/tabclean/internal/table"
)

type pipelineResponse struct {
	RunID string `json:"run_id"`
	// Empty is set when no file was uploaded; nothing else is filled in.
	Empty bool `json:"empty,omitempty"`
	*pipeline.Result
}

// request holds the decoded form of a pipeline or export call.
type request struct {
	params pipeline.Params
	opt    pipeline.Options
	sheet  string
	format table.Format
}

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request) {
	req, raw, apiErr := s.decode(w, r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}
	resp := pipelineResponse{RunID: w.Header().Get(RunIDHeader)}
	if raw == nil {
		resp.Empty = true
		render.JSON(w, r, resp)
		return
	}
	resp.Result = pipeline.Run(raw, req.params, req.opt)
	s.logger.InfoContext(r.Context(), "pipeline run",
		slog.String("missing", string(req.params.Missing)),
		slog.String("outliers", string(req.params.Outliers)),
		slog.Int("rows_in", raw.NumRows()),
		slog.Int("rows_out", resp.Result.Table.NumRows()),
	)
	if resp.ChartWarning != "" {
		s.logger.DebugContext(r.Context(), "chart skipped", slog.String("reason", resp.ChartWarning))
	}
	render.JSON(w, r, resp)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	req, raw, apiErr := s.decode(w, r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}
	if raw == nil {
		render.Render(w, r, newAPIError(http.StatusBadRequest, "MISSING_PARAMETER", "file is required", nil))
		return
	}
	_, cleaned := pipeline.Clean(raw, req.params, req.opt)
	body, err := export.Encode(cleaned, req.format)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "export failed", slog.String("error", err.Error()))
		render.Render(w, r, toAPIError(err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType(req.format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.exportName(req.format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) exportName(f table.Format) string {
	name := s.cfg.ExportFileName
	if f == table.FormatXLSX {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".xlsx"
	}
	return name
}

// decode parses the multipart form and loads the upload. A nil table with a
// nil error means no file was supplied.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*request, *table.Table, *APIError) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		return nil, nil, toAPIError(&http.MaxBytesError{Limit: s.cfg.MaxUploadBytes})
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, toAPIError(err)
		}
		return nil, nil, newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "invalid multipart form", err.Error())
	}
	req, apiErr := s.parseControls(r)
	if apiErr != nil {
		return nil, nil, apiErr
	}

	f, hdr, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return req, nil, nil
	}
	if err != nil {
		return nil, nil, newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "cannot read upload", err.Error())
	}
	defer f.Close()

	inFormat, err := table.FormatFromName(hdr.Filename)
	if err != nil {
		return nil, nil, toAPIError(err)
	}
	raw, err := pipeline.Load(f, inFormat, table.LoadOptions{Sheet: req.sheet, Name: hdr.Filename})
	if pipeline.IsEmpty(err) {
		return req, nil, nil
	}
	if err != nil {
		s.logger.WarnContext(r.Context(), "upload rejected", slog.String("file", hdr.Filename), slog.String("error", err.Error()))
		return nil, nil, toAPIError(err)
	}
	return req, raw, nil
}

func (s *Server) parseControls(r *http.Request) (*request, *APIError) {
	req := &request{params: s.cfg.Defaults, opt: s.cfg.Pipeline, sheet: r.FormValue("sheet"), format: table.FormatCSV}
	var err error
	if v := r.FormValue("missing"); v != "" {
		if req.params.Missing, err = clean.ParseMissingStrategy(v); err != nil {
			return nil, invalidParameter("missing", err)
		}
	}
	if v := r.FormValue("outliers"); v != "" {
		if req.params.Outliers, err = clean.ParseOutlierMethod(v); err != nil {
			return nil, invalidParameter("outliers", err)
		}
	}
	if v := r.FormValue("z_mode"); v != "" {
		if req.opt.Filter.ZMode, err = clean.ParseZMode(v); err != nil {
			return nil, invalidParameter("z_mode", err)
		}
	}
	if v := r.FormValue("chart"); v != "" {
		if req.params.Chart, err = chart.ParseType(v); err != nil {
			return nil, invalidParameter("chart", err)
		}
	}
	req.params.Selection = chart.Selection{X: r.FormValue("x"), Y: r.FormValue("y")}
	if v := r.FormValue("preview_rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, invalidParameter("preview_rows", fmt.Errorf("want a non-negative integer, got %q", v))
		}
		req.opt.PreviewRows = n
	}
	if v := r.FormValue("format"); v != "" {
		if req.format, err = table.ParseFormat(v); err != nil {
			return nil, invalidParameter("format", err)
		}
	}
	return req, nil
}
