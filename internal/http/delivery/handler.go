package delivery

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/delivery"
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
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/", h.clearAll)
	r.Post("/undo", h.undo)
	r.Get("/shops", h.shops)
	r.Put("/shops/{shop}/balance", h.updateShopBalance)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createDeliveryRequest struct {
	Date                 string `json:"date" validate:"required"`
	Shop                 string `json:"shop" validate:"required"`
	DeliveredBy          string `json:"deliveredBy"`
	Item                 string `json:"item" validate:"required"`
	Category             string `json:"category"`
	Quantity             int64  `json:"quantity" validate:"gt=0"`
	UnitPriceCents       int64  `json:"perPieceCents" validate:"gte=0"`
	UnitCostCents        int64  `json:"costCents" validate:"gte=0"`
	PaidCents            int64  `json:"paidCents" validate:"gte=0"`
	PreviousBalanceCents int64  `json:"previousBalanceCents"`
	Notes                string `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	d, err := h.book.AddDelivery(r.Context(), delivery.CreateParams{
		Date:                 req.Date,
		Shop:                 req.Shop,
		DeliveredBy:          req.DeliveredBy,
		Item:                 req.Item,
		Category:             req.Category,
		Quantity:             req.Quantity,
		UnitPriceCents:       req.UnitPriceCents,
		UnitCostCents:        req.UnitCostCents,
		PaidCents:            req.PaidCents,
		PreviousBalanceCents: req.PreviousBalanceCents,
		Notes:                req.Notes,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, d)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := delivery.ListFilter{
		Shop:   r.URL.Query().Get("shop"),
		Search: r.URL.Query().Get("search"),
	}

	respond.JSON(w, http.StatusOK, h.book.Deliveries(filter))
}

func (h *Handler) shops(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.book.Shops())
}

type updateDeliveryRequest struct {
	Field delivery.Field `json:"field" validate:"required"`
	Value string         `json:"value"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateDeliveryRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	d, err := h.book.UpdateDelivery(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.book.RemoveDelivery(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	d, ok, err := h.book.UndoDelivery(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	if !ok {
		http.Error(w, "nothing to undo", http.StatusConflict)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

type shopBalanceRequest struct {
	Field delivery.BalanceField `json:"field" validate:"required,oneof=paid prev"`
	Cents int64                 `json:"cents"`
}

func (h *Handler) updateShopBalance(w http.ResponseWriter, r *http.Request) {
	var req shopBalanceRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	shop := chi.URLParam(r, "shop")
	if err := h.book.UpdateShopBalance(r.Context(), shop, req.Field, req.Cents); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.book.Deliveries(delivery.ListFilter{Shop: shop}))
}

// clearAll wipes the ledger: deliveries, transactions, the baseline and
// calculator saves. Purchases and snapshots are kept.
func (h *Handler) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.book.ClearAll(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
