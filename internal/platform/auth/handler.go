package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the session endpoints.
type Handler struct {
	creds  *CredentialStore
	issuer *TokenIssuer
}

func NewHandler(creds *CredentialStore, issuer *TokenIssuer) *Handler {
	return &Handler{creds: creds, issuer: issuer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.GET("/auth/me", h.Me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string       `json:"token"`
	UserID       string       `json:"user_id"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	Capabilities []Capability `json:"capabilities"`
}

// Login exchanges an email/password pair for a session token.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	cred, err := h.creds.Authenticate(req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	token, err := h.issuer.Issue(cred.UserID, cred.Role, cred.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue session token")
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:        token,
		UserID:       cred.UserID.String(),
		Name:         cred.Name,
		Role:         cred.Role,
		Capabilities: cred.Role.Capabilities(),
	})
}

// Me echoes the verified session back to the client.
func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	role := RoleFromContext(ctx)
	if !role.Valid() {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":      UserIDFromContext(ctx).String(),
		"name":         NameFromContext(ctx),
		"role":         role,
		"capabilities": role.Capabilities(),
	})
}
