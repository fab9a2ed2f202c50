package purchase

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/http/request"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
)

func (h *Handler) listSaves(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.book.PurchaseSaves())
}

type createSaveRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createSave(w http.ResponseWriter, r *http.Request) {
	var req createSaveRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	s, err := h.book.SavePurchases(r.Context(), req.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, s)
}

// restoreSave merges the save into the purchase table; ?mode=replace|append.
func (h *Handler) restoreSave(w http.ResponseWriter, r *http.Request) {
	mode := snapshot.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = snapshot.ModeReplace
	}

	if err := h.book.RestorePurchases(r.Context(), chi.URLParam(r, "id"), mode); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type deleteSaveRequest struct {
	Confirm string `json:"confirm" validate:"required"`
}

func (h *Handler) deleteSave(w http.ResponseWriter, r *http.Request) {
	var req deleteSaveRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.book.DeletePurchaseSave(r.Context(), chi.URLParam(r, "id"), req.Confirm); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
