package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
)

type Handler struct {
	book *book.Book
}

func NewHandler(b *book.Book) *Handler {
	return &Handler{book: b}
}

// Routes serves /{registry} where registry is categories or
// purchase-items.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{registry}", h.list)
	r.Post("/{registry}", h.add)
	r.Delete("/{registry}/{name}", h.remove)
}

func registryParam(r *http.Request) book.Registry {
	return book.Registry(chi.URLParam(r, "registry"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	names, err := h.book.Names(registryParam(r))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, names)
}

type addRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	reg := registryParam(r)
	if err := h.book.AddName(r.Context(), reg, req.Name); err != nil {
		respond.Error(w, err)
		return
	}

	names, err := h.book.Names(reg)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, names)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.book.RemoveName(r.Context(), registryParam(r), chi.URLParam(r, "name")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
