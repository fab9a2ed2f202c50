package calculator

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/calculator"
	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
)

type Handler struct {
	book *book.Book
}

func NewHandler(b *book.Book) *Handler {
	return &Handler{book: b}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.calculate)

	r.Route("/saves", func(r chi.Router) {
		r.Get("/", h.listSaves)
		r.Post("/", h.save)
		r.Delete("/{id}", h.deleteSave)
		r.Post("/{id}/restore", h.restoreSave)
		r.Delete("/{id}/purge", h.purgeSave)
	})
}

type calculateRequest struct {
	Ingredients          map[string]float64 `json:"ingredients" validate:"omitempty,dive,gte=0"`
	PackagingCents       int64              `json:"packagingCents" validate:"gte=0"`
	ElectricityKwh       float64            `json:"electricityKwh" validate:"gte=0"`
	ElectricityRateCents int64              `json:"electricityRateCents" validate:"gte=0"`
	Pieces               int64              `json:"pieces" validate:"gte=0"`
	PricePerPieceCents   int64              `json:"pricePerPieceCents" validate:"gte=0"`
}

func (req calculateRequest) inputs() calculator.Inputs {
	return calculator.Inputs{
		Ingredients:          req.Ingredients,
		PackagingCents:       req.PackagingCents,
		ElectricityKwh:       req.ElectricityKwh,
		ElectricityRateCents: req.ElectricityRateCents,
		Pieces:               req.Pieces,
		PricePerPieceCents:   req.PricePerPieceCents,
	}
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	res, err := h.book.Calculate(req.inputs())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, res)
}

type saveRequest struct {
	Name   string           `json:"name"`
	Inputs calculateRequest `json:"inputs"`
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	s, err := h.book.SaveCalculation(r.Context(), req.Name, req.Inputs.inputs())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, s)
}

func (h *Handler) listSaves(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.book.Calculations(r.URL.Query().Get("deleted") == "true"))
}

func (h *Handler) deleteSave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.book.DeleteCalculation)
}

func (h *Handler) restoreSave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.book.RestoreCalculation)
}

func (h *Handler) purgeSave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.book.PurgeCalculation)
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) error) {
	if err := fn(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
