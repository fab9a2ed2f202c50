package snapshot

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
)

type Handler struct {
	book *book.Book
}

func NewHandler(b *book.Book) *Handler {
	return &Handler{book: b}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.rename)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/restore", h.restore)
	r.Post("/{id}/recover", h.recoverDeleted)
	r.Delete("/{id}/purge", h.purge)
}

// snapshotResponse leaves the captured state out of listings.
type snapshotResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Shop         string `json:"shop,omitempty"`
	Timestamp    string `json:"timestamp"`
	Deleted      bool   `json:"deleted"`
	DeletedAt    string `json:"deletedAt,omitempty"`
	Deliveries   int    `json:"deliveries"`
	Transactions int    `json:"transactions"`
	Purchases    int    `json:"purchases"`
}

func toResponse(s snapshot.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		ID:           s.ID,
		Name:         s.Name,
		Shop:         s.Shop,
		Timestamp:    s.Timestamp.Format(time.RFC3339),
		Deleted:      s.Deleted,
		Deliveries:   len(s.State.Deliveries),
		Transactions: len(s.State.Transactions),
		Purchases:    len(s.State.Purchases),
	}

	if s.DeletedAt != nil {
		resp.DeletedAt = s.DeletedAt.Format(time.RFC3339)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	snaps := h.book.Snapshots(r.URL.Query().Get("deleted") == "true")

	resp := make([]snapshotResponse, len(snaps))
	for i, s := range snaps {
		resp[i] = toResponse(s)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	Name string `json:"name"`
	Shop string `json:"shop"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	s, err := h.book.CreateSnapshot(r.Context(), req.Name, req.Shop)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(s))
}

// get returns the full snapshot including its captured state.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.book.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, s)
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	s, err := h.book.RenameSnapshot(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.book.DeleteSnapshot(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// restore merges the snapshot into the live state; ?mode=replace|append.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	mode := snapshot.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = snapshot.ModeReplace
	}

	if err := h.book.RestoreSnapshot(r.Context(), chi.URLParam(r, "id"), mode); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recoverDeleted(w http.ResponseWriter, r *http.Request) {
	s, err := h.book.RestoreDeletedSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(s))
}

type purgeRequest struct {
	Confirm string `json:"confirm" validate:"required"`
}

func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	var req purgeRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.book.PurgeSnapshot(r.Context(), chi.URLParam(r, "id"), req.Confirm); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
