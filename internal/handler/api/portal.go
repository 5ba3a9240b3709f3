package api

import (
	"errors"
	"strings"

	models "PhonePortal/internal/domain/models"
	"PhonePortal/internal/services/forecast"
	"PhonePortal/internal/usecase"
	xhttp "PhonePortal/pkg/http"
	"PhonePortal/pkg/http/middleware"
	xlogger "PhonePortal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortalHandler serves the portal JSON API under /api.
type PortalHandler struct {
	logger      *xlogger.Logger
	forecaster  *usecase.SalesForecaster
	ingestor    *usecase.SalesIngestor
	catalog     *usecase.CatalogUseCase
	marketplace *usecase.MarketplaceUseCase
	reviews     *usecase.ReviewsUseCase
	upcoming    *usecase.UpcomingUseCase
	limiter     middleware.Allower
}

func NewPortalHandler(
	logger *xlogger.Logger,
	forecaster *usecase.SalesForecaster,
	ingestor *usecase.SalesIngestor,
	catalog *usecase.CatalogUseCase,
	marketplace *usecase.MarketplaceUseCase,
	reviews *usecase.ReviewsUseCase,
	upcoming *usecase.UpcomingUseCase,
	limiter middleware.Allower,
) *PortalHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PortalHandler{
		logger:      logger,
		forecaster:  forecaster,
		ingestor:    ingestor,
		catalog:     catalog,
		marketplace: marketplace,
		reviews:     reviews,
		upcoming:    upcoming,
		limiter:     limiter,
	}
}

func (h *PortalHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")

	// writes share the per-IP token bucket
	var write []echo.MiddlewareFunc
	if h.limiter != nil {
		write = append(write, middleware.RateLimit(h.limiter))
	}

	g.POST("/predict", h.Predict)
	g.GET("/sample-csv", h.SampleCSV)
	g.POST("/sales", h.IngestSales, write...)

	g.GET("/phones", h.Phones)
	g.GET("/phones/:id", h.Phone)
	g.GET("/shops", h.Shops)
	g.POST("/compare", h.Compare)

	g.GET("/listings", h.Listings)
	g.POST("/listings", h.CreateListing, write...)
	g.POST("/mark_sold", h.MarkSold, write...)

	g.GET("/reviews", h.Reviews)
	g.POST("/reviews", h.CreateReview, write...)
	g.POST("/reviews/:id/hide", h.HideReview, write...)

	g.GET("/upcoming", h.Upcoming)
	g.GET("/upcoming/:id", h.UpcomingPhone)
	g.POST("/notify", h.Notify, write...)
	g.GET("/notifications", h.Notifications)
}

// fail maps use case errors onto the response envelope. Unknown errors are
// logged and reported as 500.
func (h *PortalHandler) fail(c echo.Context, op string, err error) error {
	var verr *models.ValidationError
	switch {
	case forecast.IsSchemaError(err):
		return xhttp.AppErrorResponse(c, xhttp.SchemaError(err.Error()))
	case errors.As(err, &verr):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestFieldError(verr.Field, verr.Message))
	case errors.Is(err, models.ErrNotFound):
		msg := strings.TrimSuffix(err.Error(), ": "+models.ErrNotFound.Error())
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(msg))
	}
	h.logger.Error(op+" usecase error",
		xlogger.String("path", c.Path()),
		xlogger.Error(err),
	)
	return xhttp.AppErrorResponse(c, xhttp.InternalError("Something went wrong").WithError(err))
}
