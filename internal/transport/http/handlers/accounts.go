package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/northbooks/accounts-service/internal/repository"
	"github.com/northbooks/accounts-service/internal/usecase"
)

// AccountHandler exposes account lookup, profile update, and role listing.
type AccountHandler struct {
	accounts *usecase.AccountService
}

func NewAccountHandler(accounts *usecase.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes binds account endpoints.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/:id", h.GetAccount)
	r.PATCH("/:id", h.UpdateAccount)
	r.GET("/:id/roles", h.ListRoles)
}

// GetAccount godoc
// @Summary Fetch an account with its profile
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} AccountDetailResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id := c.Param("id")

	account, err := h.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to fetch account")
		return
	}

	resp := AccountDetailResponse{Account: newAccountSummary(account)}

	// A missing profile row is tolerated; the account view still renders.
	profile, err := h.accounts.GetProfile(c.Request.Context(), id)
	if err == nil {
		resp.Profile = newProfileView(profile)
	} else if !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to fetch profile"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateAccount godoc
// @Summary Partially update an account's identity fields
// @Description Applies only the fields present in the request body.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateAccountRequest true "Fields to update"
// @Success 200 {object} AccountDetailResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{id} [patch]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id := c.Param("id")

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid update payload"))
		return
	}

	account, err := h.accounts.UpdateProfile(c.Request.Context(), id, usecase.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to update account")
		return
	}

	c.JSON(http.StatusOK, AccountDetailResponse{Account: newAccountSummary(account)})
}

// ListRoles godoc
// @Summary List the roles assigned to an account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} RolesResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{id}/roles [get]
func (h *AccountHandler) ListRoles(c *gin.Context) {
	id := c.Param("id")

	// Listing roles for an unknown id is a 404, not an empty list.
	if _, err := h.accounts.GetByID(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to fetch account")
		return
	}

	roles, err := h.accounts.ListRoles(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	c.JSON(http.StatusOK, newRolesResponse(id, roles))
}
