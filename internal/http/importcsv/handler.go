package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/http/respond"
	"github.com/MrJamesThe3rd/bakery/internal/importer"
)

// previewRows is how many rows the preview returns.
const previewRows = 20

type Handler struct {
	importSvc *importer.Service
	book      *book.Book
}

func NewHandler(importSvc *importer.Service, b *book.Book) *Handler {
	return &Handler{
		importSvc: importSvc,
		book:      b,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/preview", h.preview)
	r.Get("/undo", h.canUndo)
	r.Post("/undo", h.undo)
}

type previewResponse struct {
	Rows    [][]string       `json:"rows"`
	Total   int              `json:"total"`
	Mapping importer.Mapping `json:"mapping"`
}

type importResponse struct {
	Added      int                 `json:"added"`
	Duplicates int                 `json:"duplicates"`
	Invalid    int                 `json:"invalid"`
	Summary    string              `json:"summary"`
	Deliveries []delivery.Delivery `json:"deliveries"`
}

// readUpload parses the multipart form and reads the "file" field. The
// format comes from the "format" field or the file name.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([][]string, bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatFromName(header.Filename)
	}

	rows, err := h.importSvc.Read(format, file)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownFormat) {
			respond.Error(w, err)
			return nil, false
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return nil, false
	}

	return rows, true
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	resp := previewResponse{
		Rows:    rows[:min(len(rows), previewRows)],
		Total:   len(rows),
		Mapping: importer.Mapping{},
	}

	if len(rows) > 0 {
		resp.Mapping = importer.GuessMapping(rows[0])
	}

	respond.JSON(w, http.StatusOK, resp)
}

// importFile takes form fields mapping (JSON object of field to column),
// header ("true" when the first row is a header) and mode ("append" or
// "replace"). Without a mapping the header row is used to guess one.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	hasHeader, _ := strconv.ParseBool(r.FormValue("header"))

	var mapping importer.Mapping
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			http.Error(w, "invalid mapping: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else if hasHeader && len(rows) > 0 {
		mapping = importer.GuessMapping(rows[0])
	}

	var appendRows bool

	switch r.FormValue("mode") {
	case "", "append":
		appendRows = true
	case "replace":
	default:
		http.Error(w, "mode must be append or replace", http.StatusBadRequest)
		return
	}

	res, err := h.book.Import(r.Context(), book.ImportParams{
		Rows:      rows,
		Mapping:   mapping,
		HasHeader: hasHeader,
		Append:    appendRows,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Added:      res.Added,
		Duplicates: res.Duplicates,
		Invalid:    res.Invalid,
		Summary:    res.Summary(),
		Deliveries: res.Deliveries,
	})
}

func (h *Handler) canUndo(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]bool{"available": h.book.CanUndoImport()})
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	ok, err := h.book.UndoImport(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	if !ok {
		http.Error(w, "nothing to undo", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
