package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/partner"
)

type PartnerHandler struct{ uc *partner.Usecase }

func NewPartnerHandler(uc *partner.Usecase) *PartnerHandler { return &PartnerHandler{uc: uc} }

type partnerReq struct {
	Name                 string  `json:"name"                  validate:"required"`
	Email                string  `json:"email"                 validate:"omitempty,email"`
	Phone                string  `json:"phone"`
	DefaultParticipation float64 `json:"default_participation" validate:"gte=0,lte=100,dec2"`
}

func (r *partnerReq) toInput() partner.PartnerInput {
	return partner.PartnerInput{
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.Phone,
		DefaultParticipation: decimal.NewFromFloat(r.DefaultParticipation),
	}
}

func (h *PartnerHandler) CreatePartner(c echo.Context) error {
	var req partnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PartnerHandler) GetPartner(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("partner_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PartnerHandler) ListPartners(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *PartnerHandler) UpdatePartner(c echo.Context) error {
	var req partnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("partner_id"), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PartnerHandler) DeletePartner(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("partner_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
