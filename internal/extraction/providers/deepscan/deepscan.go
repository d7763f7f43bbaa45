// Package deepscan wraps the layout-aware document analysis service. It is the
// high-capability tier: it accepts PDFs and images, reads the machine-readable
// zone, and is correspondingly slower than the quickscan tier.
package deepscan

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"seacrew/internal/extraction/providers"
)

const providerID = "deepscan-v1"

// Client implements providers.Provider by calling the external document
// analysis HTTP API.
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

// New creates a deepscan provider client.
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
		Tier:      providers.TierFull,
		Networked: true,
		Media:     []providers.MediaType{providers.MediaPDF, providers.MediaImage},
	}
}

// analyzeRequest is the request body for document analysis.
type analyzeRequest struct {
	Content      string `json:"content"` // base64
	Media        string `json:"media"`
	DocumentType string `json:"document_type"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// analyzeResponse is the response from the document analysis service.
type analyzeResponse struct {
	DocumentNumber string  `json:"document_number"`
	IssueDate      string  `json:"issue_date"`
	ExpiryDate     string  `json:"expiry_date"`
	HolderName     string  `json:"holder_name"`
	MRZLine1       string  `json:"mrz_line1"`
	MRZLine2       string  `json:"mrz_line2"`
	Confidence     float64 `json:"confidence"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Extract submits the document for analysis and maps the response onto the
// provider contract.
func (c *Client) Extract(ctx context.Context, in providers.Input) (*providers.RawExtraction, error) {
	reqBody, err := json.Marshal(analyzeRequest{
		Content:      base64.StdEncoding.EncodeToString(in.Data),
		Media:        string(in.Media),
		DocumentType: string(in.Kind),
		Jurisdiction: in.JurisdictionHint,
	})
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to marshal request", err)
	}

	url := fmt.Sprintf("%s/api/v1/documents/analyze", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, providers.NewProviderError(providers.ErrorTimeout, providerID, "analysis request timed out", err)
		}
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, providerID, "analysis service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "failed to read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, providers.NewProviderError(providers.ErrorAuthentication, providerID, "analysis service rejected credentials", nil)
	case http.StatusUnsupportedMediaType:
		return nil, providers.NewProviderError(providers.ErrorUnsupportedMedia, providerID, "media type rejected", nil)
	default:
		var errResp errorResponse
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			msg = errResp.Message
		}
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, providerID, msg, nil)
	}

	var out analyzeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "failed to decode response", err)
	}

	return &providers.RawExtraction{
		Number:     out.DocumentNumber,
		IssueDate:  out.IssueDate,
		ExpiryDate: out.ExpiryDate,
		HolderName: out.HolderName,
		MRZLine1:   out.MRZLine1,
		MRZLine2:   out.MRZLine2,
		Confidence: out.Confidence,
	}, nil
}
