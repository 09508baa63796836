package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type participationReq struct {
	InvestorName   string  `json:"investor_name"   validate:"required"`
	InvestedAmount float64 `json:"invested_amount" validate:"required,gt=0,dec2"`
	Percentage     float64 `json:"percentage"      validate:"gte=0,lte=100,dec2"`
	Notes          string  `json:"notes"`
}

type loanReq struct {
	Debtor           string             `json:"debtor"            validate:"required"`
	Principal        float64            `json:"principal"         validate:"required,gt=0,dec2"`
	TotalRate        float64            `json:"total_rate"        validate:"required,gt=0,dec2"`
	IntermediaryRate float64            `json:"intermediary_rate" validate:"gte=0,dec2"`
	IntermediaryName string             `json:"intermediary_name"`
	OriginationDate  string             `json:"origination_date"  validate:"required,datetime=2006-01-02"`
	MaturityDate     string             `json:"maturity_date"     validate:"omitempty,datetime=2006-01-02"`
	Cadence          string             `json:"cadence"           validate:"required,cadence"`
	Status           string             `json:"status"            validate:"omitempty,oneof=active pending closed"`
	Notes            string             `json:"notes"`
	Participations   []participationReq `json:"participations"    validate:"required,min=1,dive"`
}

func (r *loanReq) toInput() (loan.CreateLoanInput, error) {
	origination, err := parseDate(r.OriginationDate)
	if err != nil {
		return loan.CreateLoanInput{}, err
	}
	in := loan.CreateLoanInput{
		Debtor:           r.Debtor,
		Principal:        decimal.NewFromFloat(r.Principal),
		TotalRate:        decimal.NewFromFloat(r.TotalRate),
		IntermediaryRate: decimal.NewFromFloat(r.IntermediaryRate),
		IntermediaryName: r.IntermediaryName,
		OriginationDate:  origination,
		Cadence:          loanDomain.Cadence(r.Cadence),
		Status:           loanDomain.Status(r.Status),
		Notes:            r.Notes,
	}
	if r.MaturityDate != "" {
		maturity, err := parseDate(r.MaturityDate)
		if err != nil {
			return loan.CreateLoanInput{}, err
		}
		in.MaturityDate = &maturity
	}
	for _, p := range r.Participations {
		in.Participations = append(in.Participations, loan.ParticipationInput{
			InvestorName:   p.InvestorName,
			InvestedAmount: decimal.NewFromFloat(p.InvestedAmount),
			Percentage:     decimal.NewFromFloat(p.Percentage),
			Notes:          p.Notes,
		})
	}
	return in, nil
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}
	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	f := loanDomain.Filter{
		Debtor: c.QueryParam("debtor"),
		Status: loanDomain.Status(c.QueryParam("status")),
	}
	dtos, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req loanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("loan_id"), loan.UpdateLoanInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) CloseLoan(c echo.Context) error {
	dto, err := h.uc.Close(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ReactivateLoan(c echo.Context) error {
	dto, err := h.uc.Reactivate(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
