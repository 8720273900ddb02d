package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SubmitSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/waitlist", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "a@example.com", payload["email"])
		assert.Equal(t, "Ana", payload["name"])
		assert.Equal(t, "buyer", payload["userType"])
		_, hasFeedback := payload["feedback"]
		assert.False(t, hasFeedback, "empty feedback must be omitted")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Successfully joined the waitlist",
			"id":      "entry-1",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	outcome, err := client.Submit(context.Background(), Submission{
		Email:    "a@example.com",
		Name:     "Ana",
		UserType: "buyer",
	})

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "entry-1", outcome.ID)
	assert.Equal(t, "Successfully joined the waitlist", outcome.Message)
}

func TestClient_SubmitDuplicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "This email is already on our waitlist.",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	outcome, err := client.Submit(context.Background(), Submission{
		Email:    "a@example.com",
		Name:     "Ana",
		UserType: "buyer",
	})

	assert.Nil(t, outcome)
	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.Equal(t, "This email is already on our waitlist.", submissionErr.Message)
	assert.Empty(t, submissionErr.Errors)
}

func TestClient_SubmitValidationErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Invalid form data",
			"errors": []map[string]string{
				{"field": "email", "message": "Invalid email format"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Submit(context.Background(), Submission{
		Email:    "not-an-email",
		Name:     "Ana",
		UserType: "buyer",
	})

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Len(t, submissionErr.Errors, 1)
	assert.Equal(t, "email", submissionErr.Errors[0].Field)
}

func TestClient_SubmitNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL)

	outcome, err := client.Submit(context.Background(), Submission{
		Email:    "a@example.com",
		Name:     "Ana",
		UserType: "buyer",
	})

	assert.Nil(t, outcome)
	require.Error(t, err)

	var submissionErr *SubmissionError
	assert.False(t, errors.As(err, &submissionErr), "transport failures are not SubmissionErrors")
}

func TestClient_ListEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/waitlist", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Waitlist entries retrieved successfully",
			"count":   1,
			"entries": []map[string]string{
				{
					"id":              "entry-1",
					"email":           "a@example.com",
					"name":            "Ana",
					"user_type":       "buyer",
					"user_type_label": "Buyer",
					"created_at":      "2026-03-14T09:30:00Z",
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	entries, err := client.ListEntries(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a@example.com", entries[0].Email)
	assert.Equal(t, "Buyer", entries[0].UserTypeLabel)
}

func TestClient_ExportCSV(t *testing.T) {
	const payload = "Name,Email,User Type,Feedback,Date Joined\nAna,a@example.com,Buyer,,2026-03-14T09:30:00Z\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/waitlist/export", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var buf bytes.Buffer
	err := client.ExportCSV(context.Background(), &buf)

	require.NoError(t, err)
	assert.Equal(t, payload, buf.String())
}
