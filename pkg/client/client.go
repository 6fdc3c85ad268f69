// Package client provides a typed HTTP client for the ledger backend's REST
// surface, so callers never hand-roll fetch paths or payloads. The optimistic
// helper in this package layers client-side snapshot-and-restore on top of
// the strictly consistent server operations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finbooks/ledger_backend/internal/dto"
)

// APIError is a non-2xx response from the ledger backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger backend returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to one ledger backend instance.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserID sets the acting user sent on every request.
func WithUserID(userID string) Option {
	return func(c *Client) { c.userID = userID }
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// CreateCompany registers a new company.
func (c *Client) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	var out dto.CompanyResponse
	if err := c.do(ctx, http.MethodPost, "/companies", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAccount adds an account to a company's chart of accounts.
func (c *Client) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/accounts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEntry creates a DRAFT journal entry.
func (c *Client) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	var out dto.EntryResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEntry fetches an entry with its lines.
func (c *Client) GetEntry(ctx context.Context, companyID, entryID string) (*dto.EntryResponse, error) {
	var out dto.EntryResponse
	if err := c.do(ctx, http.MethodGet, "/companies/"+companyID+"/journal-entries/"+entryID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitEntry moves a DRAFT entry to PENDING_APPROVAL.
func (c *Client) SubmitEntry(ctx context.Context, companyID, entryID string) (*dto.EntryResponse, error) {
	var out dto.EntryResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries/"+entryID+"/submit", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveEntry records approval on a pending entry.
func (c *Client) ApproveEntry(ctx context.Context, companyID, entryID, comment string) (*dto.EntryResponse, error) {
	var out dto.EntryResponse
	req := dto.ApproveEntryRequest{Comment: comment}
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries/"+entryID+"/approve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostEntry posts an entry to the ledger.
func (c *Client) PostEntry(ctx context.Context, companyID, entryID string) (*dto.EntryResponse, error) {
	var out dto.EntryResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries/"+entryID+"/post", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReverseEntry reverses a posted entry.
func (c *Client) ReverseEntry(ctx context.Context, companyID, entryID, reason string) (*dto.ReversalResponse, error) {
	var out dto.ReversalResponse
	req := dto.ReverseEntryRequest{Reason: reason}
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries/"+entryID+"/reverse", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchResultResponse mirrors the batch result body.
type BatchResultResponse struct {
	Operation  string `json:"operation"`
	Successful []struct {
		EntryID          string `json:"entryID"`
		NewStatus        string `json:"newStatus"`
		ReversingEntryID string `json:"reversingEntryID,omitempty"`
	} `json:"successful"`
	Failed []struct {
		EntryID string `json:"entryID"`
		Error   string `json:"error"`
	} `json:"failed"`
	Summary struct {
		Total                      int   `json:"total"`
		Successful                 int   `json:"successful"`
		Failed                     int   `json:"failed"`
		ProcessingTimeMs           int64 `json:"processingTimeMs"`
		InventoryMovementsReversed int   `json:"inventoryMovementsReversed,omitempty"`
		StockRestored              bool  `json:"stockRestored,omitempty"`
	} `json:"summary"`
}

// BatchApprove approves many pending entries.
func (c *Client) BatchApprove(ctx context.Context, companyID string, req dto.BatchApproveRequest) (*BatchResultResponse, error) {
	var out BatchResultResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries/batch/approve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchPost posts many entries.
func (c *Client) BatchPost(ctx context.Context, companyID string, req dto.BatchPostRequest) (*BatchResultResponse, error) {
	var out BatchResultResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries/batch/post", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchReverse reverses many posted entries.
func (c *Client) BatchReverse(ctx context.Context, companyID string, req dto.BatchReverseRequest) (*BatchResultResponse, error) {
	var out BatchResultResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/journal-entries/batch/reverse", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrialBalance fetches the trial balance as of a date (YYYY-MM-DD, empty for today).
func (c *Client) TrialBalance(ctx context.Context, companyID, asOf string) (*dto.TrialBalanceResponse, error) {
	var out dto.TrialBalanceResponse
	path := "/companies/" + companyID + "/reports/trial-balance"
	if asOf != "" {
		path += "?asOfDate=" + asOf
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BalanceSheet fetches the balance sheet as of a date.
func (c *Client) BalanceSheet(ctx context.Context, companyID, asOf string) (*dto.BalanceSheetResponse, error) {
	var out dto.BalanceSheetResponse
	path := "/companies/" + companyID + "/reports/balance-sheet"
	if asOf != "" {
		path += "?asOfDate=" + asOf
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AgingReceivables fetches the AR aging report as of a date.
func (c *Client) AgingReceivables(ctx context.Context, companyID, asOf string) (*dto.AgingReportResponse, error) {
	return c.aging(ctx, companyID, "ar-aging", asOf)
}

// AgingPayables fetches the AP aging report as of a date.
func (c *Client) AgingPayables(ctx context.Context, companyID, asOf string) (*dto.AgingReportResponse, error) {
	return c.aging(ctx, companyID, "ap-aging", asOf)
}

func (c *Client) aging(ctx context.Context, companyID, kind, asOf string) (*dto.AgingReportResponse, error) {
	var out dto.AgingReportResponse
	path := "/companies/" + companyID + "/reports/" + kind
	if asOf != "" {
		path += "?asOfDate=" + asOf
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateException records an external transaction with no ledger counterpart.
func (c *Client) CreateException(ctx context.Context, companyID string, req dto.CreateExceptionRequest) (*dto.ExceptionResponse, error) {
	var out dto.ExceptionResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/exceptions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DismissException closes an exception without a ledger entry.
func (c *Client) DismissException(ctx context.Context, companyID, exceptionID string) (*dto.ExceptionResponse, error) {
	var out dto.ExceptionResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/exceptions/"+exceptionID+"/dismiss", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveCreateException books a new expense entry from the exception and links it.
func (c *Client) ResolveCreateException(ctx context.Context, companyID, exceptionID string, req dto.ResolveCreateRequest) (*dto.ExceptionResponse, error) {
	var out dto.ExceptionResponse
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/exceptions/"+exceptionID+"/resolve-create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveMatchException links an existing posted entry to the exception.
func (c *Client) ResolveMatchException(ctx context.Context, companyID, exceptionID, entryID string) (*dto.ExceptionResponse, error) {
	var out dto.ExceptionResponse
	req := dto.ResolveMatchRequest{EntryID: entryID}
	if err := c.do(ctx, http.MethodPost, "/companies/"+companyID+"/exceptions/"+exceptionID+"/resolve-match", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
