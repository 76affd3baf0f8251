package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asleulv/vervekart/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddressesInBounds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/addresses/bounds", r.URL.Path)

		var b repository.Bounds
		require.NoError(t, json.NewDecoder(r.Body).Decode(&b))
		assert.Equal(t, 60.0, b.North)
		assert.Equal(t, 59.0, b.South)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"addresses":[{"lokalid":"123","adressetekst":"Storgata 1"},{"lokalid":"456"}]}`))
	}))
	defer server.Close()

	client := NewAddressRegistryClient(server.URL, zap.NewNop())
	addresses, err := client.AddressesInBounds(context.Background(), repository.Bounds{
		North: 60.0, South: 59.0, East: 11.0, West: 10.0,
	})
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.JSONEq(t, `{"lokalid":"123","adressetekst":"Storgata 1"}`, string(addresses[0]))
}

func TestAddressesInBoundsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAddressRegistryClient(server.URL, zap.NewNop())
	_, err := client.AddressesInBounds(context.Background(), repository.Bounds{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
