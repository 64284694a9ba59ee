package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Guizzs26/gymkey/internal/modules/pkg/httpx"
	ctxlogger "github.com/Guizzs26/gymkey/internal/modules/pkg/logger/context"
	"github.com/Guizzs26/gymkey/internal/modules/pkg/validatorx"
	"github.com/Guizzs26/gymkey/internal/platform/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PathMetrics is where the Prometheus exposition is served
const PathMetrics = "/metrics"

// Options carries what New needs to assemble the echo instance
type Options struct {
	Logger   *slog.Logger
	Renderer echo.Renderer
	Gatherer prometheus.Gatherer
}

// New builds an echo instance with the shared middleware chain, the validator,
// the central error handler and the /metrics route. Modules register their own routes on it
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validatorx.NewValidator()
	e.HTTPErrorHandler = customErrorHandler
	e.Renderer = opts.Renderer

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.NewString()
		},
	}))
	e.Use(middleware.BodyLimit("64K"))
	e.Use(ContextualLoggerMiddleware(opts.Logger))
	e.Use(RequestLoggerMiddleware())

	if opts.Gatherer != nil {
		e.GET(PathMetrics, echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return e
}

// Serve starts e on the configured address and blocks until ctx is cancelled,
// then drains in-flight requests within the shutdown timeout
func Serve(ctx context.Context, e *echo.Echo, cfg config.Config) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", slog.String("addr", srv.Addr))
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// ContextualLoggerMiddleware creates a request-scoped logger containing the request ID
// and injects it into the standard `context.Context` for use in downstream handlers and services
func ContextualLoggerMiddleware(baseLogger *slog.Logger) echo.MiddlewareFunc {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			requestLogger := baseLogger.With(slog.String("request_id", requestID))

			ctx := ctxlogger.SetLogger(c.Request().Context(), requestLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequestLoggerMiddleware logs one line per request through the contextual logger.
// Only the route pattern is logged, so key values in paths never reach the logs
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogRoutePath: true,
		LogError:     true,
		HandleError:  true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			logger := ctxlogger.GetLogger(ctx)

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("route", v.RoutePath),
				slog.Int("status", v.Status),
				slog.String("latency", v.Latency.String()),
			}

			if v.Error == nil {
				logger.LogAttrs(ctx, slog.LevelInfo, "HTTP_REQUEST", attrs...)
				return nil
			}

			attrs = append(attrs, slog.String("error", v.Error.Error()))
			logger.LogAttrs(ctx, slog.LevelError, "HTTP_REQUEST_ERROR", attrs...)
			return nil
		},
	})
}

// customErrorHandler is the centralized error handler for the entire API.
// Store failures and anything unexpected become an opaque 500
func customErrorHandler(err error, c echo.Context) {
	log := ctxlogger.GetLogger(c.Request().Context())
	if c.Response().Committed {
		return
	}

	var valErr validatorx.ValidationError
	if errors.As(err, &valErr) {
		errResp := httpx.NewAPIError(
			httpx.CodeValidation,
			"One or more fields failed validation",
			valErr.Errors,
		)
		_ = httpx.SendAPIError(c, http.StatusBadRequest, errResp)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		errResp := httpx.NewAPIError(httpx.CodeHTTP, fmt.Sprintf("%v", httpErr.Message), nil)
		_ = httpx.SendAPIError(c, httpErr.Code, errResp)
		return
	}

	log.Error("unhandled internal error", slog.String("error", err.Error()))
	errResp := httpx.NewAPIError(
		httpx.CodeInternal,
		"An unexpected error occurred",
		nil,
	)
	_ = httpx.SendAPIError(c, http.StatusInternalServerError, errResp)
}
