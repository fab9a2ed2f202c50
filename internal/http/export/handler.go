package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/export"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
)

type Handler struct {
	book *book.Book
	now  func() time.Time
}

func NewHandler(b *book.Book) *Handler {
	return &Handler{book: b, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.deliveries)
	r.Get("/deliveries", h.deliveries)
	r.Get("/purchases", h.purchases)
}

// deliveries exports the delivery table of ?shop (all shops when empty)
// as ?format=csv|xlsx.
func (h *Handler) deliveries(w http.ResponseWriter, r *http.Request) {
	sheet := export.Deliveries(h.book.Table(r.URL.Query().Get("shop")))
	h.write(w, r, "deliveries", sheet)
}

func (h *Handler) purchases(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, "purchases", export.Purchases(h.book.Purchases()))
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, kind string, sheet export.Sheet) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	// Render fully before writing headers so a failure can still be
	// reported with a proper status.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, sheet); err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(kind, format, h.now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "kind", kind, "error", err)
	}
}
