package trigger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	commonerrors "github.com/aleister1102/expirywatch/internal/common/errors"
	"github.com/aleister1102/expirywatch/internal/metrics"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/aleister1102/expirywatch/internal/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type handler struct {
	service PassService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

type cronResponse struct {
	OK      bool `json:"ok"`
	Checked int  `json:"checked"`
}

// Failure bodies stay generic; the cause is only logged.
const (
	passFailedMessage  = "pass failed"
	checkFailedMessage = "check failed"
)

type checkResponse struct {
	OK      bool       `json:"ok"`
	Expiry  *time.Time `json:"expiry,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func (h *handler) handleCron(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RunPass(r.Context(), models.PassSourceManual)
	if err != nil {
		h.logger.Error().Err(err).Bool("store_error", models.IsStoreError(err)).Msg("On-demand pass failed")
		h.writeJSON(w, r, http.StatusInternalServerError, map[string]interface{}{"ok": false, "error": passFailedMessage})
		return
	}
	h.writeJSON(w, r, http.StatusOK, cronResponse{OK: true, Checked: result.Checked})
}

func (h *handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeJSON(w, r, http.StatusBadRequest, checkResponse{Error: "invalid domain id"})
		return
	}

	expiry, err := h.service.CheckDomain(r.Context(), id)
	switch {
	case errors.Is(err, commonerrors.ErrNotFound):
		h.writeJSON(w, r, http.StatusNotFound, checkResponse{Error: "domain not found"})
	case errors.Is(err, scheduler.ErrManualDomain):
		h.writeJSON(w, r, http.StatusBadRequest, checkResponse{Error: "manual domains are not checked automatically"})
	case err != nil:
		h.logger.Error().Err(err).Int64("domain_id", id).Msg("On-demand check failed")
		h.writeJSON(w, r, http.StatusInternalServerError, checkResponse{Error: checkFailedMessage})
	case expiry == nil:
		h.writeJSON(w, r, http.StatusOK, checkResponse{Message: "Unable to fetch expiry"})
	default:
		utc := expiry.UTC()
		h.writeJSON(w, r, http.StatusOK, checkResponse{OK: true, Expiry: &utc})
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	h.metrics.IncTriggerRequest(routePattern(r), status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to write response")
	}
}
