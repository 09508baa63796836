package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	partnerDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/partner"
	paymentDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
	loanUC "github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/loan"
	partnerUC "github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/partner"
	paymentUC "github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/payment"
)

const dateLayout = "2006-01-02"

// writeError maps domain/usecase errors to HTTP status codes.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, paymentDomain.ErrNotFound),
		errors.Is(err, partnerDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loanDomain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanUC.ErrValidation),
		errors.Is(err, paymentUC.ErrValidation),
		errors.Is(err, partnerUC.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// parseMonth accepts "2006-01" and returns the first day of that month (UTC).
func parseMonth(raw string) (time.Time, error) {
	return time.Parse("2006-01", strings.TrimSpace(raw))
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(raw))
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
