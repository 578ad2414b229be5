package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "chipin/internal/delivery/http/helpers"
	"chipin/internal/domain"

	"github.com/shopspring/decimal"
)

// UpdateUserRequest is the request body for PATCH /users/me. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Nickname *string `json:"nickname"`
	MaxSpend *string `json:"max_spend" example:"150.00"`
}

// Validate implements Validator.
func (u UpdateUserRequest) Validate() []string {
	var errs []string
	if u.Nickname == nil && u.MaxSpend == nil {
		errs = append(errs, "nickname or max_spend is required")
	}
	if u.MaxSpend != nil {
		_, err := domain.ParseMoney(*u.MaxSpend)
		switch {
		case errors.Is(err, domain.ErrAmountOutOfRange):
			errs = append(errs, "max_spend must be between 0 and "+domain.FormatAmount(domain.MaxAmount))
		case err != nil:
			errs = append(errs, "max_spend must be a decimal number")
		}
	}
	return errs
}

// UserSuccessResponse is the success response envelope for GET and PATCH /users/me (200).
type UserSuccessResponse struct {
	Data  *domain.User `json:"data"`
	Error *h.APIError  `json:"error"`
}

// UserController handles the authenticated user's profile.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile, including the spending cap.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update current user
// @Description Sets the nickname and/or the spending cap (max_spend, a decimal string from 0 to 99999999.99, rounded to cents).
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateUserRequest true "Profile fields"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	var maxSpend *decimal.Decimal
	if req.MaxSpend != nil {
		d, _ := domain.ParseMoney(*req.MaxSpend)
		maxSpend = &d
	}
	user, err := c.Service.UpdateProfile(r.Context(), userID, req.Nickname, maxSpend)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}
