//go:build integration

package main_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server: docker-compose up, then go test -tags integration ./cmd/api/...
const baseURL = "http://localhost:8080/api/v1"

type apiClient struct {
	http  *http.Client
	token string
}

func (c *apiClient) do(t *testing.T, method, path string, payload any, out any) int {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, baseURL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type notificationList struct {
	Data []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		IsRead   bool   `json:"is_read"`
	} `json:"data"`
	UnreadCount int `json:"unread_count"`
}

func TestEndToEndFlow(t *testing.T) {
	client := &apiClient{http: &http.Client{Timeout: 10 * time.Second}}
	email := fmt.Sprintf("flow-%s@example.com", uuid.NewString()[:8])

	t.Run("Register", func(t *testing.T) {
		var out struct {
			AccessToken string `json:"access_token"`
		}
		status := client.do(t, http.MethodPost, "/auth/register", map[string]string{
			"email":     email,
			"password":  "password123",
			"full_name": "Flow Tester",
		}, &out)
		require.Equal(t, http.StatusCreated, status)
		require.NotEmpty(t, out.AccessToken)
		client.token = out.AccessToken
	})

	t.Run("Welcome notification is unread", func(t *testing.T) {
		var out notificationList
		require.Equal(t, http.StatusOK, client.do(t, http.MethodGet, "/notifications", nil, &out))
		assert.GreaterOrEqual(t, out.UnreadCount, 1)
	})

	var productID string
	t.Run("Create product", func(t *testing.T) {
		var out struct {
			ID string `json:"id"`
		}
		status := client.do(t, http.MethodPost, "/products", map[string]any{
			"sku":           "flow-" + uuid.NewString()[:8],
			"name":          "Flow Widget",
			"quantity":      10,
			"reorder_level": 5,
			"unit_price":    2.5,
		}, &out)
		require.Equal(t, http.StatusCreated, status)
		productID = out.ID
	})

	t.Run("Stock adjustment raises no stock notification", func(t *testing.T) {
		require.NotEmpty(t, productID)
		status := client.do(t, http.MethodPost, "/products/"+productID+"/adjust", map[string]any{
			"delta":  -6,
			"reason": "cycle count",
		}, nil)
		require.Equal(t, http.StatusOK, status)

		var out notificationList
		require.Equal(t, http.StatusOK, client.do(t, http.MethodGet, "/notifications", nil, &out))
		for _, n := range out.Data {
			assert.NotEqual(t, "stock", n.Category)
		}

		var low notificationList
		require.Equal(t, http.StatusOK, client.do(t, http.MethodGet, "/notifications?category=inventory", nil, &low))
		assert.NotEmpty(t, low.Data, "dropping below the reorder level warns")
	})

	t.Run("Movement ledger records the adjustment", func(t *testing.T) {
		var out struct {
			Data []struct {
				Delta int `json:"delta"`
			} `json:"data"`
		}
		require.Equal(t, http.StatusOK, client.do(t, http.MethodGet, "/products/"+productID+"/movements", nil, &out))
		require.NotEmpty(t, out.Data)
		assert.Equal(t, -6, out.Data[0].Delta)
	})

	t.Run("Duplicate emit is suppressed", func(t *testing.T) {
		payload := map[string]any{
			"type":     "info",
			"title":    "Shift handover",
			"message":  "Dock 3 is clear",
			"category": "general",
		}
		require.Equal(t, http.StatusCreated, client.do(t, http.MethodPost, "/notifications", payload, nil))
		require.Equal(t, http.StatusAccepted, client.do(t, http.MethodPost, "/notifications", payload, nil))
	})

	t.Run("Mark all read", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, client.do(t, http.MethodPost, "/notifications/mark-all-read", nil, nil))

		var out struct {
			Count int `json:"count"`
		}
		require.Equal(t, http.StatusOK, client.do(t, http.MethodGet, "/notifications/unread-count", nil, &out))
		assert.Zero(t, out.Count)
	})

	t.Run("Clear stock adjustments", func(t *testing.T) {
		var out struct {
			Removed int `json:"removed"`
		}
		require.Equal(t, http.StatusOK, client.do(t, http.MethodDelete, "/notifications/stock", nil, &out))
		assert.Zero(t, out.Removed)
	})
}
