package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
)

type Handler struct {
	book *book.Book
}

func NewHandler(b *book.Book) *Handler {
	return &Handler{book: b}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/undo", h.undo)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Date        string           `json:"date" validate:"required"`
	Type        transaction.Kind `json:"type" validate:"required,oneof=payment deduction"`
	AmountCents int64            `json:"amountCents" validate:"gt=0"`
	Shop        string           `json:"shop"`
	Notes       string           `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	tx, err := h.book.AddTransaction(r.Context(), transaction.CreateParams{
		Date:        req.Date,
		Kind:        req.Type,
		AmountCents: req.AmountCents,
		Shop:        req.Shop,
		Notes:       req.Notes,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{Shop: r.URL.Query().Get("shop")}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Kind = new(transaction.Kind(s))
	}

	respond.JSON(w, http.StatusOK, toResponseList(h.book.Transactions(filter)))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.book.RemoveTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	tx, ok, err := h.book.UndoTransaction(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	if !ok {
		http.Error(w, "nothing to undo", http.StatusConflict)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}
