package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/portfolio"
)

type PortfolioHandler struct{ uc *portfolio.Usecase }

func NewPortfolioHandler(uc *portfolio.Usecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

func (h *PortfolioHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Installments projects one loan's schedule within [from, to], defaulting to
// the six months after "from" when "to" is absent.
func (h *PortfolioHandler) Installments(c echo.Context) error {
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from must be in format 2006-01-02"})
	}
	to := from.AddDate(0, 6, 0)
	if raw := c.QueryParam("to"); raw != "" {
		to, err = parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to must be in format 2006-01-02"})
		}
	}
	insts, err := h.uc.Installments(c.Request().Context(), c.Param("loan_id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, insts)
}

// MonthlyReport renders the plain-text distribution report for a month.
func (h *PortfolioHandler) MonthlyReport(c echo.Context) error {
	month, err := parseMonth(c.QueryParam("month"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "month must be in format 2006-01"})
	}
	text, err := h.uc.MonthlyReport(c.Request().Context(), month)
	if err != nil {
		return writeError(c, err)
	}
	return c.String(http.StatusOK, text)
}
