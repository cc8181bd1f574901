// backend/src/services/row_sources.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/username/foxxdash/backend/src/logger"
	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/parsers"
)

// sheetValuesResponse mirrors the Google Sheets values API payload.
type sheetValuesResponse struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// GoogleSheetSource reads a spreadsheet range through the Sheets values API.
type GoogleSheetSource struct {
	httpClient *http.Client
	apiKey     string
	sheetID    string
	sheetRange string
}

func NewGoogleSheetSource(apiKey, sheetID, sheetRange string, timeout time.Duration) *GoogleSheetSource {
	return &GoogleSheetSource{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		sheetID:    sheetID,
		sheetRange: sheetRange,
	}
}

func (s *GoogleSheetSource) Name() string { return "google-sheet" }

func (s *GoogleSheetSource) Fetch(ctx context.Context) ([]models.RawRow, error) {
	if s.apiKey == "" || s.sheetID == "" {
		return nil, ErrSourceNotConfigured
	}

	endpoint := fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s/values/%s?key=%s",
		url.PathEscape(s.sheetID), url.PathEscape(s.sheetRange), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building sheets request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling sheets API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheets API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload sheetValuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding sheets response: %w", err)
	}

	rows := parsers.RowsFromValues(payload.Values)
	logger.L.Info("Fetched sheet rows", "source", s.Name(), "range", payload.Range, "rows", len(rows))
	return rows, nil
}

// HTTPCSVSource downloads a CSV export from a fixed URL.
type HTTPCSVSource struct {
	httpClient *http.Client
	name       string
	url        string
}

func NewHTTPCSVSource(name, csvURL string, timeout time.Duration) *HTTPCSVSource {
	return &HTTPCSVSource{
		httpClient: &http.Client{Timeout: timeout},
		name:       name,
		url:        csvURL,
	}
}

func (s *HTTPCSVSource) Name() string { return s.name }

func (s *HTTPCSVSource) Fetch(ctx context.Context) ([]models.RawRow, error) {
	if s.url == "" {
		return nil, ErrSourceNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building CSV request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading CSV: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CSV download returned status %d", resp.StatusCode)
	}

	rows, err := parsers.NewCSVParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing downloaded CSV: %w", err)
	}
	logger.L.Info("Fetched CSV rows", "source", s.name, "rows", len(rows))
	return rows, nil
}

// FileCSVSource reads a CSV from the local filesystem, useful for
// deployments that drop exports next to the binary.
type FileCSVSource struct {
	name string
	path string
}

func NewFileCSVSource(name, path string) *FileCSVSource {
	return &FileCSVSource{name: name, path: path}
}

func (s *FileCSVSource) Name() string { return s.name }

func (s *FileCSVSource) Fetch(ctx context.Context) ([]models.RawRow, error) {
	if s.path == "" {
		return nil, ErrSourceNotConfigured
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := parsers.NewCSVParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV file %s: %w", s.path, err)
	}
	return rows, nil
}
