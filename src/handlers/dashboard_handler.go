// backend/src/handlers/dashboard_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/username/foxxdash/backend/src/logger"
	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/services"
	"github.com/username/foxxdash/backend/src/utils"
)

type DashboardHandler struct {
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// HandleSalesSummary serves GET /api/sales/summary. Filter dimensions come
// from query parameters; absent parameters leave the dimension open.
func (h *DashboardHandler) HandleSalesSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.SalesFilter{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Challenge: q.Get("challenge"),
		Payment:   q.Get("payment"),
	}

	summary, err := h.service.GetSalesSummary(r.Context(), filter)
	if err != nil {
		h.sendSourceError(w, "sales", err)
		return
	}

	writeJSONWithETag(w, r, summary)
}

// HandleBalanceSummary serves GET /api/balance/summary.
func (h *DashboardHandler) HandleBalanceSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.BalanceFilter{
		StartDate:      q.Get("startDate"),
		EndDate:        q.Get("endDate"),
		OperationType:  q.Get("operationType"),
		SourceObject:   q.Get("sourceObject"),
		SourceCurrency: q.Get("currency"),
	}

	summary, err := h.service.GetBalanceSummary(r.Context(), filter)
	if err != nil {
		h.sendSourceError(w, "balance", err)
		return
	}

	writeJSONWithETag(w, r, summary)
}

// HandleCohortSummary serves GET /api/sales/cohort. The month parameter is
// YYYY-MM and defaults to the current month.
func (h *DashboardHandler) HandleCohortSummary(w http.ResponseWriter, r *http.Request) {
	ref := time.Now().UTC()
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			utils.SendJSONError(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
			return
		}
		ref = parsed
	}

	summary, err := h.service.GetCohortSummary(r.Context(), ref)
	if err != nil {
		h.sendSourceError(w, "sales", err)
		return
	}

	writeJSONWithETag(w, r, summary)
}

// HandleRefresh serves POST /api/refresh: drop caches so the next summary
// call refetches from upstream.
func (h *DashboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.service.Refresh()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "refreshed"}); err != nil {
		logger.L.Error("Error encoding refresh response", "error", err)
	}
}

func (h *DashboardHandler) sendSourceError(w http.ResponseWriter, source string, err error) {
	switch {
	case errors.Is(err, services.ErrSourceNotConfigured):
		utils.SendJSONError(w, fmt.Sprintf("No %s data source is configured; upload a ledger export first", source), http.StatusServiceUnavailable)
	case errors.Is(err, services.ErrSourceUnavailable):
		utils.SendJSONError(w, fmt.Sprintf("The %s data source is unreachable and no stored copy exists", source), http.StatusServiceUnavailable)
	default:
		logger.L.Error("Internal error building summary", "source", source, "error", err)
		utils.SendJSONError(w, "An internal error occurred while building the summary", http.StatusInternalServerError)
	}
}

// writeJSONWithETag encodes the payload with an ETag so clients polling the
// dashboard can skip unchanged bodies via If-None-Match.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, payload any) {
	currentETag, etagErr := utils.GenerateETag(payload)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag", "path", r.URL.Path, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding JSON response", "path", r.URL.Path, "error", err)
	}
}
