package summary

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
)

type Handler struct {
	book *book.Book
}

func NewHandler(b *book.Book) *Handler {
	return &Handler{book: b}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/shops", h.shops)
}

// BaselineRoutes mounts the baseline ("set totals") endpoints.
func (h *Handler) BaselineRoutes(r chi.Router) {
	r.Get("/", h.getBaseline)
	r.Put("/", h.setBaseline)
	r.Put("/displayed", h.setDisplayed)
	r.Delete("/", h.clearBaseline)
}

type summaryResponse struct {
	reconcile.Summary

	State reconcile.State `json:"state"`
}

func toResponse(s reconcile.Summary) summaryResponse {
	return summaryResponse{Summary: s, State: s.State()}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toResponse(h.book.Summary(r.URL.Query().Get("shop"))))
}

func (h *Handler) shops(w http.ResponseWriter, _ *http.Request) {
	summaries := h.book.ShopSummaries()

	resp := make([]summaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = toResponse(s)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getBaseline(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.book.Baseline())
}

type baselineRequest struct {
	Paid *int64 `json:"paid"`
	Prev *int64 `json:"prev"`
}

func (h *Handler) setBaseline(w http.ResponseWriter, r *http.Request) {
	var req baselineRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.book.SetBaseline(r.Context(), reconcile.Baseline{Paid: req.Paid, Prev: req.Prev}); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(h.book.Summary("")))
}

// setDisplayed takes the figures the operator wants to see and stores the
// baseline that produces them.
func (h *Handler) setDisplayed(w http.ResponseWriter, r *http.Request) {
	var req baselineRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	s, err := h.book.SetDisplayedTotals(r.Context(), req.Paid, req.Prev)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) clearBaseline(w http.ResponseWriter, r *http.Request) {
	if err := h.book.ClearBaseline(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
