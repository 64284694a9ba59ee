package keys

import (
	"net/http"

	"github.com/Guizzs26/gymkey/internal/modules/pkg/httpx"
	ctxlogger "github.com/Guizzs26/gymkey/internal/modules/pkg/logger/context"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Route paths, kept identical to the ones existing clients call
const (
	PathIndex       = "/"
	PathFormRequest = "/form-request"
	PathGenerateKey = "/generate-key"
	PathValidateKey = "/validate-key/:key"
	PathHealth      = "/healthz"
)

// KeyHandler holds dependencies for key-related HTTP handlers
type KeyHandler struct {
	keyService *Service
}

// NewKeyHandler creates a new instance of KeyHandler
func NewKeyHandler(keyService *Service) *KeyHandler {
	return &KeyHandler{keyService: keyService}
}

// RegisterRoutes sets up the key routes on the given group
func (h *KeyHandler) RegisterRoutes(g *echo.Group) {
	g.GET(PathIndex, h.indexHandler)
	g.POST(PathFormRequest, h.formRequestHandler)
	g.POST(PathGenerateKey, h.generateKeyHandler)
	g.GET(PathValidateKey, h.validateKeyHandler)
	g.GET(PathHealth, h.healthHandler)
}

// GenerateKeyRequest is the body of POST /generate-key and POST /form-request.
// Both fields must be present; their content is not constrained
type GenerateKeyRequest struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

func (r GenerateKeyRequest) credentials() Credentials {
	return Credentials{Username: *r.Username, Password: *r.Password}
}

// GenerateKeyResponse carries the issued key, or null when the credentials were rejected
type GenerateKeyResponse struct {
	Key *uuid.UUID `json:"key"`
}

// ValidateKeyResponse reports whether the key was outstanding and is now consumed
type ValidateKeyResponse struct {
	IsValid bool `json:"is_valid"`
}

// HealthResponse is the payload of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// indexHandler renders the key request form
func (h *KeyHandler) indexHandler(c echo.Context) error {
	return c.Render(http.StatusOK, indexTemplate, IndexPage{Endpoint: PathFormRequest})
}

// formRequestHandler handles the HTML form. Every outcome is rendered as a page
func (h *KeyHandler) formRequestHandler(c echo.Context) error {
	req, err := h.bindFormRequest(c)
	if err != nil {
		return err
	}

	key, ok, err := h.keyService.Issue(c.Request().Context(), req.credentials())
	switch {
	case err != nil:
		return c.Render(http.StatusOK, failureTemplate, KeyFailurePage{Message: msgServerError})
	case !ok:
		return c.Render(http.StatusOK, failureTemplate, KeyFailurePage{Message: msgInvalidCredentials})
	default:
		return c.Render(http.StatusOK, successTemplate, KeySuccessPage{Key: key.String()})
	}
}

// generateKeyHandler handles the JSON key request
func (h *KeyHandler) generateKeyHandler(c echo.Context) error {
	req, err := h.bindJSONRequest(c)
	if err != nil {
		return err
	}

	key, ok, err := h.keyService.Issue(c.Request().Context(), req.credentials())
	if err != nil {
		return err
	}

	var resp GenerateKeyResponse
	if ok {
		resp.Key = &key
	}
	return c.JSON(http.StatusOK, resp)
}

// validateKeyHandler redeems the key in the path
func (h *KeyHandler) validateKeyHandler(c echo.Context) error {
	isValid, err := h.keyService.Validate(c.Request().Context(), c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ValidateKeyResponse{IsValid: isValid})
}

// healthHandler reports whether the key store answers
func (h *KeyHandler) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.keyService.Ping(ctx); err != nil {
		ctxlogger.GetLogger(ctx).WarnContext(ctx, "health check failed", "error", err.Error())
		return httpx.SendAPIError(c, http.StatusServiceUnavailable,
			httpx.NewAPIError(httpx.CodeUnavailable, "key store unavailable", nil))
	}
	return httpx.SendSuccess(c, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *KeyHandler) bindJSONRequest(c echo.Context) (*GenerateKeyRequest, error) {
	var req GenerateKeyRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body format")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// bindFormRequest reads the urlencoded form. A field that is absent stays nil
// so validation can tell it apart from an empty value
func (h *KeyHandler) bindFormRequest(c echo.Context) (*GenerateKeyRequest, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form body")
	}

	var req GenerateKeyRequest
	if v, ok := form["username"]; ok && len(v) > 0 {
		req.Username = &v[0]
	}
	if v, ok := form["password"]; ok && len(v) > 0 {
		req.Password = &v[0]
	}

	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
