package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"superlists/internal/domain/list"
	"superlists/internal/web"
)

// ListService is the subset of list.Service the handlers depend on.
type ListService interface {
	NewList(ctx context.Context, text string) (*list.List, error)
	AddItem(ctx context.Context, listID, text string) (*list.Item, error)
	GetList(ctx context.Context, id string) (*list.ListWithItems, error)
}

type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

type ListHandler struct {
	service  ListService
	renderer Renderer
	logger   *log.Logger
}

func NewListHandler(service ListService, renderer Renderer, logger *log.Logger) *ListHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ListHandler{service: service, renderer: renderer, logger: logger}
}

// PageData is passed to every page template. List is nil on the home page.
type PageData struct {
	List *list.ListWithItems
}

type ItemResponse struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type ListResponse struct {
	ID    string         `json:"id"`
	URL   string         `json:"url"`
	Items []ItemResponse `json:"items"`
}

func toListResponse(l *list.ListWithItems) ListResponse {
	items := make([]ItemResponse, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, ItemResponse{ID: it.ID, Text: it.Text})
	}
	return ListResponse{ID: l.ID, URL: l.URL(), Items: items}
}

// HandleHome renders the home page.
func (h *ListHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, web.HomeTemplate, PageData{})
}

// HandleViewList renders a single list with its items.
func (h *ListHandler) HandleViewList(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadList(w, r)
	if !ok {
		return
	}
	h.render(w, web.ListTemplate, PageData{List: l})
}

// HandleNewList creates a list holding the submitted item and redirects to it.
func (h *ListHandler) HandleNewList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	l, err := h.service.NewList(r.Context(), r.PostFormValue("item_text"))
	if err != nil {
		h.logger.Error("failed to create list", "err", err)
		http.Error(w, "Failed to create list", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, l.URL(), http.StatusFound)
}

// HandleAddItem appends the submitted item to an existing list.
func (h *ListHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if _, err := h.service.AddItem(r.Context(), id, r.PostFormValue("item_text")); err != nil {
		if errors.Is(err, list.ErrListNotFound) {
			http.Error(w, "List not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to add item", "list", id, "err", err)
		http.Error(w, "Failed to add item", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, (&list.List{ID: id}).URL(), http.StatusFound)
}

// HandleListJSON returns a list and its items as JSON.
func (h *ListHandler) HandleListJSON(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadList(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toListResponse(l)); err != nil {
		h.logger.Debug("failed to write list response", "list", l.ID, "err", err)
	}
}

func (h *ListHandler) loadList(w http.ResponseWriter, r *http.Request) (*list.ListWithItems, bool) {
	id := r.PathValue("id")

	l, err := h.service.GetList(r.Context(), id)
	if err != nil {
		if errors.Is(err, list.ErrListNotFound) {
			http.Error(w, "List not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("failed to load list", "list", id, "err", err)
		http.Error(w, "Failed to load list", http.StatusInternalServerError)
		return nil, false
	}
	return l, true
}

// render buffers the page so a template error never leaves a partial response.
func (h *ListHandler) render(w http.ResponseWriter, name string, data PageData) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "err", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Debug("failed to write page", "template", name, "err", err)
	}
}
