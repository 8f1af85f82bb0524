package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/swisscluster/bank-importer/internal/domain"
	"github.com/swisscluster/bank-importer/internal/importer"
	"github.com/swisscluster/bank-importer/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	importSvc *importer.Service
	txnRepo   *repository.BankTransactionRepo
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- PreviewImport ---

// PreviewImport accepts either a multipart upload (field "file", an XML
// statement or a ZIP of statements) or a "source" form value holding a
// local path or URL, plus optional from_date/to_date/bank_account fields.
func (h *Handlers) PreviewImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	req := importer.PreviewRequest{
		Source:        r.FormValue("source"),
		FromDate:      r.FormValue("from_date"),
		ToDate:        r.FormValue("to_date"),
		BankAccountID: r.FormValue("bank_account"),
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
			return
		}
		req.FileName = header.Filename
		req.Content = data
	}

	result, err := h.importSvc.Preview(req)
	if err != nil {
		if errors.Is(err, importer.ErrMissingSource) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- CommitImport ---

type commitRequest struct {
	Transactions []domain.PreviewRow `json:"transactions"`
	BankAccount  string              `json:"bank_account"`
}

func (h *Handlers) CommitImport(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := h.importSvc.Commit(req.Transactions, req.BankAccount)
	if err != nil {
		if errors.Is(err, importer.ErrMissingBankAccount) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- ListTransactions ---

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.txnRepo.List(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total":        len(txns),
	})
}
