package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"fleetmaster/internal/middleware"
	"fleetmaster/internal/models"
	"fleetmaster/internal/services"
)

type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
	RequestPasswordReset(ctx context.Context, req models.RequestPasswordResetRequest) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
}

type AccountHandler struct {
	svc AccountService
	v   *validator.Validate
}

func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{svc: svc, v: newValidator()}
}

// Register godoc
// @Summary      Register a user
// @Description  Creates the login and a linked customer profile.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request  body      models.RegisterRequest  true  "Registration"
// @Success      200      {object}  models.Response[models.RegisterResponse]
// @Failure      400      {object}  models.Response[any]
// @Router       /api/account/register [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, h.v, &req) {
		return
	}
	resp, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, services.MsgRegistered, resp)
}

// Login godoc
// @Summary      Log in with a username or email
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Credentials"
// @Success      200      {object}  models.Response[string]  "data holds the bearer token"
// @Failure      400      {object}  models.Response[any]
// @Failure      404      {object}  models.Response[any]
// @Router       /api/account/login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, h.v, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", token)
}

// ChangePassword godoc
// @Summary      Change the caller's password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChangePasswordRequest  true  "Passwords"
// @Success      200      {object}  models.Response[string]
// @Failure      401      {object}  models.Response[any]
// @Security     BearerAuth
// @Router       /api/account/change-password [post]
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !decodeBody(w, r, h.v, &req) {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.svc.ChangePassword(r.Context(), userID, req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, services.MsgPasswordChanged, "")
}

// RequestPasswordReset godoc
// @Summary      Email a 6-digit reset code
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request  body      models.RequestPasswordResetRequest  true  "Email"
// @Success      200      {object}  models.Response[string]
// @Failure      429      {object}  models.Response[any]
// @Router       /api/account/request-password-reset [post]
func (h *AccountHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.RequestPasswordResetRequest
	if !decodeBody(w, r, h.v, &req) {
		return
	}
	msg, err := h.svc.RequestPasswordReset(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, msg, "")
}

// ResetPassword godoc
// @Summary      Set a new password with a reset code
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request  body      models.ResetPasswordRequest  true  "Reset"
// @Success      200      {object}  models.Response[string]
// @Failure      400      {object}  models.Response[any]
// @Router       /api/account/reset-password [post]
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeBody(w, r, h.v, &req) {
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, services.MsgPasswordReset, "")
}
