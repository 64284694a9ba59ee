package httpx

import "github.com/labstack/echo/v4"

// Success is the envelope used by the operational endpoints (health and the like).
// The key endpoints keep their flat bodies for compatibility with existing clients
type Success struct {
	Data any `json:"data"`
}

// SendSuccess wraps data in the Success envelope and writes it with the given status code
func SendSuccess(c echo.Context, code int, data any) error {
	return c.JSON(code, Success{Data: data})
}
