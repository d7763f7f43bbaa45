// Package quickscan wraps the low-latency image OCR service. It only handles
// raster images and does not read the machine-readable zone, but responds fast
// enough to sit first in the image fallback chain.
package quickscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"seacrew/internal/extraction/providers"
)

const providerID = "quickscan-v1"

// Client implements providers.Provider by calling the external image OCR HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ providers.Provider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a quickscan provider client.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string { return providerID }

func (c *Client) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		Tier:      providers.TierFast,
		Networked: true,
		Media:     []providers.MediaType{providers.MediaImage},
	}
}

// ocrResponse is the response from the image OCR service.
type ocrResponse struct {
	Fields struct {
		DocumentNumber string `json:"document_number"`
		IssueDate      string `json:"issue_date"`
		ExpiryDate     string `json:"expiry_date"`
		HolderName     string `json:"holder_name"`
	} `json:"fields"`
	Confidence float64 `json:"confidence"`
}

// Extract uploads the image as multipart form data and maps the response onto
// the provider contract.
func (c *Client) Extract(ctx context.Context, in providers.Input) (*providers.RawExtraction, error) {
	if in.Media != providers.MediaImage {
		return nil, providers.NewProviderError(providers.ErrorUnsupportedMedia, providerID, "only image input supported", nil)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "document")
	if err == nil {
		_, err = part.Write(in.Data)
	}
	if err == nil {
		err = mw.WriteField("document_type", string(in.Kind))
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to build upload", err)
	}

	url := fmt.Sprintf("%s/v1/ocr", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to create request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, providers.NewProviderError(providers.ErrorTimeout, providerID, "ocr request timed out", err)
		}
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, providerID, "ocr service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "failed to read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, providers.NewProviderError(providers.ErrorAuthentication, providerID, "ocr service rejected credentials", nil)
	default:
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, providerID,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var out ocrResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "failed to decode response", err)
	}

	return &providers.RawExtraction{
		Number:     out.Fields.DocumentNumber,
		IssueDate:  out.Fields.IssueDate,
		ExpiryDate: out.Fields.ExpiryDate,
		HolderName: out.Fields.HolderName,
		Confidence: out.Confidence,
	}, nil
}
