package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/northbooks/accounts-service/internal/usecase"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *usecase.AuthService
}

func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds authentication endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

// Login godoc
// @Summary Authenticate with email and password
// @Description Verifies credentials and returns the account with an opaque session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	account, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// One message for unknown email, wrong password, and an active
		// lock, so the endpoint cannot confirm account existence.
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid login payload"},
		}, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	if !account.IsActive {
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "account is deactivated"))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     "session-" + uuid.NewString(),
		TokenType: "opaque",
		Account:   newAccountSummary(account),
	})
}
