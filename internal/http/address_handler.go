package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/asleulv/vervekart/internal/repository"
	"github.com/asleulv/vervekart/internal/service"

	"go.uber.org/zap"
)

// AddressHandler proxies viewport address lookups to the external registry.
// A nil client means no registry is configured and the endpoint answers 503.
type AddressHandler struct {
	registry *service.AddressRegistryClient
	logger   *zap.Logger
}

func NewAddressHandler(registry *service.AddressRegistryClient, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{registry: registry, logger: logger}
}

type addressesInBoundsResponse struct {
	Addresses []json.RawMessage `json:"addresses"`
}

func (h *AddressHandler) AddressesInBounds(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "address registry not configured"})
		return
	}

	var req boundsRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.North == nil || req.South == nil || req.East == nil || req.West == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "north, south, east and west must all be numbers"})
		return
	}

	addresses, err := h.registry.AddressesInBounds(r.Context(), repository.Bounds{
		North: *req.North, South: *req.South, East: *req.East, West: *req.West,
	})
	if err != nil {
		h.logger.Error("Address proxy failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "address registry unavailable"})
		return
	}
	if addresses == nil {
		addresses = []json.RawMessage{}
	}
	writeJSON(w, http.StatusOK, addressesInBoundsResponse{Addresses: addresses})
}
