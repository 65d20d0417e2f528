package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/azertyfreak/makelaar-contract-generator/config"
)

// TextExtractor produces raw text from an uploaded document. Parsing
// strategies consume that text unchanged, so swapping the mock for a
// real OCR backend never touches the parser contract.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, reader io.Reader) (string, error)
}

// NewTextExtractor builds the configured extraction collaborator.
func NewTextExtractor(cfg *config.OCRConfig) (TextExtractor, error) {
	switch cfg.Mode {
	case "remote":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("ocr.api_url is required for remote mode")
		}
		return NewRemoteExtractor(cfg), nil
	case "mock", "":
		return &MockExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown ocr mode: %s", cfg.Mode)
	}
}

// MockExtractor stands in for a real OCR engine. The placeholder text
// yields no pattern matches, so strategies fall back to their synthetic
// records.
type MockExtractor struct{}

func (e *MockExtractor) Extract(ctx context.Context, filename string, reader io.Reader) (string, error) {
	// Drain the reader so callers can treat both implementations alike.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return fmt.Sprintf("Mock text extraction for %s", filename), nil
}

// RemoteExtractor posts the document to an OCR HTTP service and returns
// the recognized text.
type RemoteExtractor struct {
	config     *config.OCRConfig
	httpClient *http.Client
}

type extractResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		Text string `json:"text"`
	} `json:"data"`
}

func NewRemoteExtractor(cfg *config.OCRConfig) *RemoteExtractor {
	return &RemoteExtractor{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (e *RemoteExtractor) Extract(ctx context.Context, filename string, reader io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build request body: %w", err)
	}
	if _, err := io.Copy(part, reader); err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.APIURL+"/extract/text", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.config.APIToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result extractResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(respBody))
	}

	if result.Code != 0 {
		return "", fmt.Errorf("OCR API error: %s", result.Message)
	}

	return result.Data.Text, nil
}
