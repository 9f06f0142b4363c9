package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	appErrors "github.com/victorydiv/fojournapp-sub001/internal/errors"
	"github.com/victorydiv/fojournapp-sub001/internal/service"
)

// CampaignHandler holds the dependencies for campaign-related HTTP handlers
type CampaignHandler struct {
	Service *service.CampaignService
	Log     zerolog.Logger
}

// CreateCampaign accepts a dispatch request, returning 201 as soon as
// the recipient snapshot is committed and dispatch is scheduled.
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in service.CreateCampaignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if senderID, ok := SenderFromContext(r.Context()); ok {
		in.SenderID = &senderID
	}

	result, err := h.Service.CreateCampaign(in)
	if err != nil {
		var vErr *appErrors.ValidationError
		var rErr *appErrors.ResolutionError
		switch {
		case errors.As(err, &vErr), errors.As(err, &rErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.Log.Error().Err(err).Msg("create campaign failed")
			writeError(w, http.StatusInternalServerError, "failed to create campaign")
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ListCampaigns returns the paginated campaign history.
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	campaigns, pagination, err := h.Service.ListCampaigns(page, limit)
	if err != nil {
		h.Log.Error().Err(err).Msg("list campaigns failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch campaigns")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns":  campaigns,
		"pagination": pagination,
	})
}

// GetCampaign returns one campaign with per-status recipient counts.
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	details, err := h.Service.GetCampaignDetails(id)
	if err != nil {
		var nf *appErrors.ErrCampaignNotFound
		if errors.As(err, &nf) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Log.Error().Err(err).Int("campaign_id", id).Msg("get campaign failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch campaign")
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
