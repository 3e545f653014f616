package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/adaptiveflow/pkg/buildinfo"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
	"github.com/matzehuels/adaptiveflow/pkg/graph"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
)

// CacheHeader reports whether the scene came from the cache.
const CacheHeader = "X-Cache"

// NavigateRequest moves focus on the surface of a document.
type NavigateRequest struct {
	Document json.RawMessage `json:"document"`
	Trigger  int             `json:"trigger,omitempty"`
	Focused  string          `json:"focused,omitempty"`
	Command  cursor.Command  `json:"command"`
}

// NavigateResponse is where focus landed.
type NavigateResponse struct {
	cursor.Result
	Moved bool `json:"moved"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := pipeline.Load(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scene, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(CacheHeader, cacheStatus(hit))
	writeJSON(w, http.StatusOK, graph.FromScene(scene, graph.WithTree(), graph.WithStats()))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set(CacheHeader, cacheStatus(result.CacheInfo.SceneHit && result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, bodyError(err))
		return
	}
	opts := pipeline.OptionsFromConfig(s.cfg)
	opts.Source = "request"
	opts.Document = req.Document
	opts.Trigger = req.Trigger

	doc, err := pipeline.Load(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scene, err := s.runner.Layout(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, moved := s.tracker.Move(scene.Elements, req.Focused, req.Command)
	writeJSON(w, http.StatusOK, NavigateResponse{Result: res, Moved: moved})
}

// requestOptions reads the document body and applies query overrides on
// top of the server's configuration.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return pipeline.Options{}, bodyError(err)
	}
	opts := pipeline.OptionsFromConfig(s.cfg)
	opts.Source = "request"
	opts.Document = data

	q := r.URL.Query()
	if opts.Trigger, err = intParam(q, "trigger", 0); err != nil {
		return opts, err
	}
	if opts.Smart, err = boolParam(q, "smart", opts.Smart); err != nil {
		return opts, err
	}
	if opts.Menus, err = boolParam(q, "menus", opts.Menus); err != nil {
		return opts, err
	}
	if opts.Detailed, err = boolParam(q, "detailed", false); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q, "scale", opts.Scale); err != nil {
		return opts, err
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	opts.Selected = q.Get("select")
	return opts, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
	}
	return b, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, v)
	}
	return f, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errTooLarge{limit: tooLarge.Limit}
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
}

type errTooLarge struct{ limit int64 }

func (e errTooLarge) Error() string {
	return "request body exceeds " + strconv.FormatInt(e.limit, 10) + " bytes"
}

// statusOf maps an error to its HTTP status code.
func statusOf(err error) int {
	if stderrors.As(err, new(errTooLarge)) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidSelectionID:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", "id", RequestID(r.Context()), "err", err)
	}
	body := ErrorResponse{Error: errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body.Code = string(code)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
