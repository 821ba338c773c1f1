// Package importtab serves the tabular import endpoints. Input arrives either
// as a multipart file upload or as pasted text in a JSON body; both run
// through the same parse-and-reconcile pipeline and answer with a per-row
// import summary.
package importtab

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andremfs/bookline/internal/importer"
	"github.com/andremfs/bookline/internal/project"
	"github.com/andremfs/bookline/internal/reconcile"
	"github.com/andremfs/bookline/internal/transaction"
)

type Handler struct {
	importSvc  *importer.Service
	txSvc      *transaction.Service
	projectSvc *project.Service
	maxUpload  int64
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, projectSvc *project.Service, maxUpload int64) *Handler {
	return &Handler{
		importSvc:  importSvc,
		txSvc:      txSvc,
		projectSvc: projectSvc,
		maxUpload:  maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/transactions", h.importTransactions)
	r.Post("/accounts", h.importAccounts)
}

type pasteRequest struct {
	Text       string `json:"text"`
	SkipHeader bool   `json:"skip_header"`
}

func (h *Handler) importTransactions(w http.ResponseWriter, r *http.Request) {
	h.importInto(w, r, func(ctx context.Context, body io.Reader, opts importer.Options) (*reconcile.Summary, error) {
		records, err := h.importSvc.ParseTransactions(ctx, body, opts)
		if err != nil {
			return nil, err
		}

		return h.txSvc.Import(ctx, records)
	})
}

func (h *Handler) importAccounts(w http.ResponseWriter, r *http.Request) {
	h.importInto(w, r, func(ctx context.Context, body io.Reader, opts importer.Options) (*reconcile.Summary, error) {
		records, err := h.importSvc.ParseAccounts(ctx, body, opts)
		if err != nil {
			return nil, err
		}

		return h.projectSvc.ImportChart(ctx, records)
	})
}

type importFunc func(ctx context.Context, body io.Reader, opts importer.Options) (*reconcile.Summary, error)

func (h *Handler) importInto(w http.ResponseWriter, r *http.Request, run importFunc) {
	body, opts, ok := h.input(w, r)
	if !ok {
		return
	}

	if c, ok := body.(io.Closer); ok {
		defer c.Close()
	}

	summary, err := run(r.Context(), body, opts)
	if err != nil {
		if errors.Is(err, transaction.ErrBatchAborted) || errors.Is(err, project.ErrBatchAborted) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summary); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// input extracts the import payload. Multipart requests carry a file plus
// form fields; anything else is read as a JSON paste body.
func (h *Handler) input(w http.ResponseWriter, r *http.Request) (io.Reader, importer.Options, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
			return nil, importer.Options{}, false
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field is required", http.StatusBadRequest)
			return nil, importer.Options{}, false
		}

		format := importer.Format(r.FormValue("format"))
		if format == "" && strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
			format = importer.FormatXLSX
		}

		return file, importer.Options{
			Format:     format,
			SkipHeader: r.FormValue("skip_header") == "true",
		}, true
	}

	var req pasteRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxUpload)).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, importer.Options{}, false
	}

	if req.Text == "" {
		http.Error(w, "text field is required", http.StatusBadRequest)
		return nil, importer.Options{}, false
	}

	return strings.NewReader(req.Text), importer.Options{SkipHeader: req.SkipHeader}, true
}
