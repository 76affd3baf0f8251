package live

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Handler serves the broadcast service's HTTP surface. Writes come in over
// plain POSTs; the fan-out happens on the websocket side.
type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

type setStatusRequest struct {
	AddressID string `json:"addressId"`
	Status    string `json:"status"`
	TeamID    string `json:"teamId"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.AddressID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "addressId is required"})
		return
	}

	ev := h.hub.SetStatus(req.AddressID, req.Status, req.TeamID, req.Timestamp)
	h.hub.Broadcast(ev)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type statusesRequest struct {
	AddressIDs []string `json:"addressIds"`
}

// Statuses answers a bulk lookup with a bare id-to-entry map.
func (h *Handler) Statuses(w http.ResponseWriter, r *http.Request) {
	var req statusesRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	writeJSON(w, http.StatusOK, h.hub.Statuses(req.AddressIDs))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": h.hub.ClientCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
