//go:build smoke

package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSmokeSignupAndInventory signs up through auth-service, logs in and
// uses the access token against inventory-service.
func TestSmokeSignupAndInventory(t *testing.T) {
	authURL := os.Getenv("AUTH_URL_FROM_COMPOSE_NETWORK")
	inventoryURL := os.Getenv("INVENTORY_URL_FROM_COMPOSE_NETWORK")
	require.NotEmpty(t, authURL, "AUTH_URL_FROM_COMPOSE_NETWORK environment variable must be set")
	require.NotEmpty(t, inventoryURL, "INVENTORY_URL_FROM_COMPOSE_NETWORK environment variable must be set")

	client := &http.Client{Timeout: 10 * time.Second}
	creds := map[string]string{
		"username": fmt.Sprintf("smoke%d@example.com", rand.Intn(1e9)),
		"password": "smoke-test-password",
	}

	resp := postJSON(t, client, authURL+"/signup", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, authURL+"/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.NotEmpty(t, login.AccessToken)

	resp = postJSON(t, client, inventoryURL+"/offices", login.AccessToken, map[string]string{
		"name": fmt.Sprintf("smoke-office-%d", rand.Intn(1e9)),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var office struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&office))
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/offices/%d", inventoryURL, office.ID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}
