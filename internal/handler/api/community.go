package api

import (
	models "PhonePortal/internal/domain/models"
	xhttp "PhonePortal/pkg/http"

	"github.com/labstack/echo/v4"
)

// Marketplace, reviews and release notifications.

func (h *PortalHandler) Listings(c echo.Context) error {
	req := &models.ListingQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	listings, err := h.marketplace.List(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "listings", err)
	}
	return xhttp.ListResponse(c, listings, len(listings))
}

func (h *PortalHandler) CreateListing(c echo.Context) error {
	req := &models.CreateListingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	l, err := h.marketplace.Create(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "create listing", err)
	}
	return xhttp.CreatedResponse(c, l)
}

func (h *PortalHandler) MarkSold(c echo.Context) error {
	req := &models.MarkSoldRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	l, err := h.marketplace.MarkSold(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "mark sold", err)
	}
	return xhttp.SuccessResponse(c, l)
}

func (h *PortalHandler) Reviews(c echo.Context) error {
	req := &models.ReviewQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.reviews.List(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "reviews", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortalHandler) CreateReview(c echo.Context) error {
	req := &models.CreateReviewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	r, err := h.reviews.Create(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "create review", err)
	}
	return xhttp.CreatedResponse(c, r)
}

func (h *PortalHandler) HideReview(c echo.Context) error {
	r, err := h.reviews.Hide(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "hide review", err)
	}
	return xhttp.SuccessResponse(c, r)
}

func (h *PortalHandler) Upcoming(c echo.Context) error {
	req := &models.UpcomingQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	items, err := h.upcoming.List(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "upcoming", err)
	}
	return xhttp.ListResponse(c, items, len(items))
}

func (h *PortalHandler) UpcomingPhone(c echo.Context) error {
	p, err := h.upcoming.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "upcoming phone", err)
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *PortalHandler) Notify(c echo.Context) error {
	req := &models.NotifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	n, err := h.upcoming.Notify(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "notify", err)
	}
	return xhttp.CreatedResponse(c, n)
}

func (h *PortalHandler) Notifications(c echo.Context) error {
	all, err := h.upcoming.Notifications(c.Request().Context())
	if err != nil {
		return h.fail(c, "notifications", err)
	}
	return xhttp.ListResponse(c, all, len(all))
}
