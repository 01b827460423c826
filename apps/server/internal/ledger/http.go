package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
)

type HTTPHandler struct {
	ledger Service
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(ledgerService Service) *HTTPHandler {
	return &HTTPHandler{ledger: ledgerService}
}

func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/rounds", h.handleRecent)
	r.Get("/rounds/{id}", h.handleRound)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{
		"items": h.ledger.ListRecent(limit),
	})
}

func (h *HTTPHandler) handleRound(w http.ResponseWriter, r *http.Request) {
	roundID := strings.TrimSpace(chi.URLParam(r, "id"))
	if roundID == "" {
		writeError(w, http.StatusBadRequest, "missing round id")
		return
	}
	item, err := h.ledger.Get(roundID)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "round not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query round failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 20
	}
	if n > 100 {
		return 100
	}
	return n
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
