package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

// Handler holds the HTTP handlers for one controller.
type Handler struct {
	ctrl       *controller.Controller
	renderer   render.Renderer
	renderOpts render.RenderOptions
	log        logrus.FieldLogger
}

func newHandler(ctrl *controller.Controller, options ...Option) *Handler {
	h := &Handler{ctrl: ctrl, log: discardLogger()}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

type fieldRequest struct {
	Value string `json:"value"`
	// Type appends Value to the current content instead of replacing it.
	Type bool `json:"type,omitempty"`
}

type fieldResponse struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
}

type requiredRequest struct {
	Required bool `json:"required"`
}

type selectRequest struct {
	// Selector is an option value, a display label, an integer index or a
	// "#<index>" string.
	Selector any `json:"selector"`
}

type valuesRequest struct {
	Values []string `json:"values"`
}

type groupResponse struct {
	Group    string   `json:"group"`
	Selected []string `json:"selected"`
}

type attachRequest struct {
	// Ref is a fixture path or an @alias.
	Ref    string            `json:"ref"`
	Action controller.Action `json:"action,omitempty"`
}

// Page renders the form for the current state.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	opts := h.renderOpts
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		opts.Locale = locale
	}
	body, err := h.renderer.Render(r.Context(), h.ctrl.Form(), h.ctrl.Snapshot(), opts)
	if err != nil {
		h.log.WithError(err).Error("httpapi: render page")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	name, ok := h.field(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type {
		h.ctrl.TypeField(name, req.Value)
	} else {
		h.ctrl.SetField(name, req.Value)
	}
	writeJSON(w, http.StatusOK, h.fieldState(name))
}

func (h *Handler) ClearField(w http.ResponseWriter, r *http.Request) {
	name, ok := h.field(w, r)
	if !ok {
		return
	}
	h.ctrl.ClearField(name)
	writeJSON(w, http.StatusOK, h.fieldState(name))
}

func (h *Handler) SetRequired(w http.ResponseWriter, r *http.Request) {
	name, ok := h.field(w, r)
	if !ok {
		return
	}
	var req requiredRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.ctrl.SetRequired(name, req.Required)
	writeJSON(w, http.StatusOK, h.fieldState(name))
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	selector, err := normaliseSelector(req.Selector)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.ctrl.Select(chi.URLParam(r, "group"), selector)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.ctrl.Check)
}

func (h *Handler) Uncheck(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.ctrl.Uncheck)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, apply func(string, ...string) error) {
	group := chi.URLParam(r, "group")
	var req valuesRequest
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := apply(group, req.Values...); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	selected, err := h.ctrl.Selected(group)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Group: group, Selected: selected})
}

// Attach accepts either a multipart upload in the "file" part or a JSON body
// naming a fixture path or alias.
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	var (
		src    controller.Source
		action = controller.Action(r.URL.Query().Get("action"))
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read file")
			return
		}
		src = controller.FromBytes(header.Filename, data)
	} else {
		var req attachRequest
		if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Ref) == "" {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		src = controller.ParseSource(req.Ref)
		if req.Action != "" {
			action = req.Action
		}
	}

	switch action {
	case "":
		action = controller.ActionSelect
	case controller.ActionSelect, controller.ActionDragDrop:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", action))
		return
	}

	result, err := h.ctrl.AttachFile(src, controller.WithAction(action))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) Detach(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Detach()
	w.WriteHeader(http.StatusNoContent)
}

// Submit answers 200 for an accepted submission and 422 for an invalid one.
// Both carry the SubmissionResult.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	result := h.ctrl.Submit()
	status := http.StatusOK
	if !result.Accepted() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *Handler) ShowBanner(w http.ResponseWriter, r *http.Request) {
	h.banner(w, r, h.ctrl.ShowBanner)
}

func (h *Handler) HideBanner(w http.ResponseWriter, r *http.Request) {
	h.banner(w, r, h.ctrl.HideBanner)
}

func (h *Handler) banner(w http.ResponseWriter, r *http.Request, apply func(model.BannerKind) error) {
	kind := model.BannerKind(chi.URLParam(r, "kind"))
	if err := apply(kind); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Banner(kind))
}

// field resolves the {name} parameter, answering 404 for undeclared fields.
func (h *Handler) field(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if _, ok := h.ctrl.Form().Field(name); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown field %q", name))
		return "", false
	}
	return name, true
}

func (h *Handler) fieldState(name string) fieldResponse {
	return fieldResponse{
		Name:     name,
		Value:    h.ctrl.Value(name),
		Required: h.ctrl.IsRequired(name),
	}
}

// normaliseSelector turns JSON numbers into indexes and "#n" strings into
// indexes; other strings stay values or labels.
func normaliseSelector(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("selector %v is not an integer index", v)
		}
		return int(v), nil
	case string:
		return controller.ParseSelector(v), nil
	default:
		return nil, errors.New("selector must be a string or an integer")
	}
}
