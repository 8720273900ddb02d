// Package signup implements the waitlist submission flow consumed by the
// terminal client: an HTTP client for the waitlist API and a Form state
// machine mirroring the landing page's idle/submitting/submitted lifecycle.
package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/kivahq/kiva-waitlist/pkg/errors"
)

// FallbackErrorMessage is shown when a submission fails without a usable
// server-supplied message (network errors, malformed responses).
const FallbackErrorMessage = "Something went wrong. Please try again."

const defaultRequestTimeout = 30 * time.Second

// Submission is one waitlist entry candidate as the user filled it in.
type Submission struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Feedback string `json:"feedback,omitempty" validate:"omitempty,max=2000"`
	UserType string `json:"userType" validate:"required,oneof=buyer seller influencer"`
}

// SubmitOutcome is the decoded success envelope of POST /api/waitlist.
type SubmitOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`

	Errors []apperrors.ValidationErrorResponse `json:"errors"`
}

// SubmissionError is a rejected attempt: the server-supplied message (or
// the generic fallback) plus any field-level errors. Every failure is
// terminal for its attempt; the user is the retry mechanism.
type SubmissionError struct {
	Message string
	Errors  []apperrors.ValidationErrorResponse
}

func (e *SubmissionError) Error() string {
	return e.Message
}

// Submitter issues exactly one submission request.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (*SubmitOutcome, error)
}

// Entry is one stored waitlist row as the admin listing returns it.
type Entry struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	UserType      string `json:"user_type"`
	UserTypeLabel string `json:"user_type_label"`
	Feedback      string `json:"feedback"`
	CreatedAt     string `json:"created_at"`
}

// Client talks to the waitlist API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Submit posts one submission and interprets the discriminated response.
// A non-success envelope is returned as a *SubmissionError carrying the
// server message; transport failures are returned as-is for the caller to
// classify.
func (c *Client) Submit(ctx context.Context, s Submission) (*SubmitOutcome, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("signup: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/waitlist", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("signup: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signup: submit request: %w", err)
	}
	defer resp.Body.Close()

	var outcome SubmitOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("signup: decode response: %w", err)
	}

	if !outcome.Success {
		message := outcome.Message
		if message == "" {
			message = FallbackErrorMessage
		}
		return nil, &SubmissionError{Message: message, Errors: outcome.Errors}
	}

	return &outcome, nil
}

// ListEntries fetches the admin listing, newest first.
func (c *Client) ListEntries(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/admin/waitlist", nil)
	if err != nil {
		return nil, fmt.Errorf("signup: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signup: list request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool    `json:"success"`
		Message string  `json:"message"`
		Entries []Entry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("signup: decode response: %w", err)
	}

	if !envelope.Success {
		return nil, fmt.Errorf("signup: list entries: %s", envelope.Message)
	}

	return envelope.Entries, nil
}

// ExportCSV streams the admin CSV export into w.
func (c *Client) ExportCSV(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/admin/waitlist/export", nil)
	if err != nil {
		return fmt.Errorf("signup: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("signup: export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signup: export failed with status %d", resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("signup: read export: %w", err)
	}
	return nil
}
