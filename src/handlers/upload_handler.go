// backend/src/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/foxxdash/backend/src/config"
	"github.com/username/foxxdash/backend/src/logger"
	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/parsers"
	"github.com/username/foxxdash/backend/src/security/validation"
	"github.com/username/foxxdash/backend/src/services"
	"github.com/username/foxxdash/backend/src/utils"
)

// UploadHandler accepts ledger exports (CSV or XLSX) and stores them as the
// active row set for a source.
type UploadHandler struct {
	service services.DashboardService
}

func NewUploadHandler(service services.DashboardService) *UploadHandler {
	return &UploadHandler{service: service}
}

type uploadResponse struct {
	SnapshotID string `json:"snapshotId"`
	Source     string `json:"source"`
	Rows       int    `json:"rows"`
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source != services.SourceSales && source != services.SourceBalance {
		utils.SendJSONError(w, "Form field 'source' must be 'sales' or 'balance'", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	parser, err := parsers.GetParser(fileHeader.Filename)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := parser.Parse(file)
	if err != nil {
		logger.L.Warn("Upload parsing failed", "source", source, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error parsing uploaded file: %v", err), http.StatusBadRequest)
		return
	}
	sanitizeRows(rows)

	snapshotID, err := h.service.StoreUpload(source, rows)
	if err != nil {
		logger.L.Error("Failed to store uploaded rows", "source", source, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "An internal error occurred while storing the upload", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Upload stored", "source", source, "filename", fileHeader.Filename, "rows", len(rows), "snapshotID", snapshotID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(uploadResponse{SnapshotID: snapshotID, Source: source, Rows: len(rows)}); err != nil {
		logger.L.Error("Error encoding upload response", "error", err)
	}
}

// sanitizeRows cleans every string cell in place. Uploaded exports are
// untrusted and their cells end up rendered in spreadsheets and tables.
func sanitizeRows(rows []models.RawRow) {
	for _, row := range rows {
		for key, value := range row {
			if s, ok := value.(string); ok {
				row[key] = validation.SanitizeForFormulaInjection(validation.StripUnprintable(s))
			}
		}
	}
}
