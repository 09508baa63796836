package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/payment"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/portfolio"
)

type PaymentHandler struct {
	uc   *payment.Usecase
	port *portfolio.Usecase
}

func NewPaymentHandler(uc *payment.Usecase, port *portfolio.Usecase) *PaymentHandler {
	return &PaymentHandler{uc: uc, port: port}
}

type recordPaymentReq struct {
	DueDate      string  `json:"due_date"      validate:"required,datetime=2006-01-02"`
	Amount       float64 `json:"amount"        validate:"required,gt=0,dec2"`
	ReceivedDate string  `json:"received_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        string  `json:"notes"`
}

type settlePaymentReq struct {
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}
	in := payment.RecordPaymentInput{
		DueDate: dueDate,
		Amount:  decimal.NewFromFloat(req.Amount),
		Notes:   req.Notes,
	}
	if req.ReceivedDate != "" {
		received, err := parseDate(req.ReceivedDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
		}
		in.ReceivedDate = &received
	}
	dto, err := h.uc.Record(c.Request().Context(), c.Param("loan_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// SettlePayment records whatever remains owed for the installment, marking it
// paid in one click.
func (h *PaymentHandler) SettlePayment(c echo.Context) error {
	var req settlePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}
	dto, err := h.uc.MarkPaid(c.Request().Context(), c.Param("loan_id"), dueDate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// ListMonth is the receipts screen feed: every loan's installment due in the
// requested month, reconciled against recorded payments.
func (h *PaymentHandler) ListMonth(c echo.Context) error {
	month, err := parseMonth(c.QueryParam("month"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "month must be in format 2006-01"})
	}
	insts, err := h.port.MonthView(c.Request().Context(), month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, insts)
}
