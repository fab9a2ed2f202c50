package purchase

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
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
	r.Delete("/", h.clear)
	r.Post("/undo", h.undo)
	r.Get("/costs", h.costs)
	r.Get("/units/{item}", h.units)
	r.Put("/overrides/{item}", h.setOverride)
	r.Route("/saves", func(r chi.Router) {
		r.Get("/", h.listSaves)
		r.Post("/", h.createSave)
		r.Post("/{id}/restore", h.restoreSave)
		r.Delete("/{id}", h.deleteSave)
	})
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createPurchaseRequest struct {
	Date       string        `json:"date" validate:"required"`
	Item       string        `json:"item" validate:"required"`
	Quantity   float64       `json:"qty" validate:"gt=0"`
	Unit       purchase.Unit `json:"unit" validate:"required"`
	TotalCents int64         `json:"totalCents" validate:"gt=0"`
}

type purchaseResponse struct {
	purchase.Purchase

	Conversion purchase.Conversion `json:"conversion"`
}

func toResponse(p purchase.Purchase) purchaseResponse {
	return purchaseResponse{Purchase: p, Conversion: p.Conversion()}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	p, err := h.book.AddPurchase(r.Context(), purchase.CreateParams{
		Date:       req.Date,
		Item:       req.Item,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		TotalCents: req.TotalCents,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	ps := h.book.Purchases()

	resp := make([]purchaseResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type updatePurchaseRequest struct {
	Field purchase.Field `json:"field" validate:"required"`
	Value string         `json:"value"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updatePurchaseRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	p, err := h.book.UpdatePurchase(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.book.RemovePurchase(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.book.ClearPurchases(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	p, ok, err := h.book.UndoPurchase(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	if !ok {
		http.Error(w, "nothing to undo", http.StatusConflict)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) costs(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.book.Costs())
}

func (h *Handler) units(w http.ResponseWriter, r *http.Request) {
	key := purchase.Normalize(chi.URLParam(r, "item"))

	respond.JSON(w, http.StatusOK, map[string]any{
		"key":      key,
		"units":    purchase.AllowedUnits(key),
		"baseUnit": purchase.BaseUnitFor(key),
	})
}

type overrideRequest struct {
	Cents int64 `json:"cents"`
}

// setOverride pins a session-only cost; zero or less clears it.
func (h *Handler) setOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	key := purchase.Normalize(chi.URLParam(r, "item"))
	respond.JSON(w, http.StatusOK, h.book.SetCostOverride(key, req.Cents))
}
