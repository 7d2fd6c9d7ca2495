package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cleared-dev/categorizer/internal/buildinfo"
	"github.com/cleared-dev/categorizer/internal/categorize"
	"github.com/cleared-dev/categorizer/internal/inbox"
	"github.com/cleared-dev/categorizer/internal/logger"
	"github.com/cleared-dev/categorizer/internal/model"
	"github.com/cleared-dev/categorizer/internal/tabular"
)

// UploadField is the multipart form field carrying the statement.
const UploadField = "statement"

// httpError carries a status for request-level failures.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

type ruleView struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

type tableView struct {
	Columns   []string        `json:"columns"`
	Rows      [][]model.Value `json:"rows"`
	TotalRows int             `json:"total_rows"`
}

func newTableView(t *model.Table, n int) tableView {
	head := t.Head(n)
	return tableView{Columns: head.Columns, Rows: head.Rows, TotalRows: t.Len()}
}

type previewResponse struct {
	RunID       string             `json:"run_id"`
	FileName    string             `json:"file_name"`
	Format      string             `json:"format"`
	Uploaded    tableView          `json:"uploaded"`
	Categorized tableView          `json:"categorized"`
	Summary     categorize.Summary `json:"summary"`
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": buildinfo.Version,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// listRules handles GET /api/rules
func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	rt, err := s.svc.Rules(r.Context())
	if err != nil {
		s.ruleFailure(w, r, err)
		return
	}

	rules := rt.Rules()
	views := make([]ruleView, len(rules))
	for i, rule := range rules {
		views[i] = ruleView{Keyword: rule.Keyword, Category: rule.Category}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"rules": views,
		"count": len(views),
	})
}

// listCategories handles GET /api/categories
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	rt, err := s.svc.Rules(r.Context())
	if err != nil {
		s.ruleFailure(w, r, err)
		return
	}

	categories := rt.Categories()
	if categories == nil {
		categories = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"count":      len(categories),
	})
}

// preview handles POST /api/preview
func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	n := s.opts.PreviewRows
	if q := r.URL.Query().Get("rows"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 {
			WriteError(w, http.StatusBadRequest, "rows must be a positive integer")
			return
		}
		n = v
	}

	res, name, ok := s.run(w, r)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, previewResponse{
		RunID:       res.RunID,
		FileName:    name,
		Format:      res.Format,
		Uploaded:    newTableView(res.Input, n),
		Categorized: newTableView(res.Output, n),
		Summary:     res.Summary,
	})
}

// download handles POST /api/categorize and returns the workbook.
func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.run(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := (&tabular.XLSX{}).Write(&buf, res.Output); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("run_id", res.RunID).Msg("Failed to encode workbook")
		WriteError(w, http.StatusInternalServerError, "Failed to encode workbook")
		return
	}

	h := w.Header()
	h.Set("Content-Type", tabular.ContentTypeXLSX)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.opts.FileName))
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("X-Run-ID", res.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// run loads the rules, reads the upload and categorizes it, writing an error
// response and returning false on failure.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*categorize.Result, string, bool) {
	ctx := r.Context()
	if _, err := s.svc.Rules(ctx); err != nil {
		s.ruleFailure(w, r, err)
		return nil, "", false
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		s.uploadFailure(w, r, err)
		return nil, "", false
	}

	res, err := s.svc.Run(ctx, up)
	if err != nil {
		s.uploadFailure(w, r, err)
		return nil, "", false
	}
	return res, up.Name, true
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (categorize.Upload, error) {
	if r.ContentLength > s.opts.MaxUploadBytes {
		return categorize.Upload{}, &httpError{http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", s.opts.MaxUploadBytes)}
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return categorize.Upload{}, &httpError{http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", s.opts.MaxUploadBytes)}
		}
		return categorize.Upload{}, &httpError{http.StatusBadRequest, "invalid multipart form"}
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return categorize.Upload{}, &httpError{http.StatusBadRequest,
			fmt.Sprintf("no %q file provided", UploadField)}
	}
	defer file.Close()

	if !inbox.Accepts(header.Filename) {
		return categorize.Upload{}, &httpError{http.StatusUnsupportedMediaType,
			"file must be .xlsx or .csv"}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return categorize.Upload{}, &httpError{http.StatusBadRequest, "reading upload failed"}
	}
	return categorize.Upload{Name: header.Filename, Data: data}, nil
}

// uploadFailure reports errors caused by the uploaded statement.
func (s *Server) uploadFailure(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	var he *httpError
	switch {
	case errors.As(err, &he):
		WriteError(w, he.status, he.msg)
	case errors.Is(err, model.ErrUnsupportedFormat):
		log.Warn().Err(err).Msg("Unreadable statement")
		WriteError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, model.ErrMalformedSource):
		log.Warn().Err(err).Msg("Malformed statement")
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Msg("Categorization failed")
		WriteError(w, http.StatusInternalServerError, "Categorization failed")
	}
}

// ruleFailure reports errors loading the master rule table. These are
// server-side problems rather than bad requests.
func (s *Server) ruleFailure(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Error().Err(err).Msg("Failed to load rule table")
	if errors.Is(err, model.ErrSourceUnavailable) {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error())
}
