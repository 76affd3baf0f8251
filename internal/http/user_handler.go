package httpapi

import (
	"net/http"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/service"

	"go.uber.org/zap"
)

// UserHandler serves volunteer registration.
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

type registerUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type registerUserResponse struct {
	User *domain.User `json:"user"`
}

func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	user, err := h.userService.RegisterUser(r.Context(), req.Name, req.Email)
	if err != nil {
		h.logger.Error("RegisterUser failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, registerUserResponse{User: user})
}
