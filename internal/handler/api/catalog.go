package api

import (
	"strings"

	models "PhonePortal/internal/domain/models"
	xhttp "PhonePortal/pkg/http"

	"github.com/labstack/echo/v4"
)

func (h *PortalHandler) Phones(c echo.Context) error {
	req := &models.PhoneQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	phones, err := h.catalog.FindPhones(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "phones", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=60")
	return xhttp.ListResponse(c, phones, len(phones))
}

func (h *PortalHandler) Phone(c echo.Context) error {
	p, err := h.catalog.GetPhone(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "phone", err)
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *PortalHandler) Shops(c echo.Context) error {
	req := &models.ShopQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	shops, err := h.catalog.FindShops(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "shops", err)
	}
	return xhttp.ListResponse(c, shops, len(shops))
}

// Compare scores two phones. Ids come from the body, or the query string
// when the body leaves them out.
func (h *PortalHandler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if strings.TrimSpace(req.ID1) == "" {
		req.ID1 = c.QueryParam("id1")
	}
	if strings.TrimSpace(req.ID2) == "" {
		req.ID2 = c.QueryParam("id2")
	}
	res, err := h.catalog.Compare(c.Request().Context(), req.ID1, req.ID2)
	if err != nil {
		return h.fail(c, "compare", err)
	}
	return xhttp.SuccessResponse(c, res)
}
