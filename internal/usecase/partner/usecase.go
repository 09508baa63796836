package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	partnerDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/partner"
	"github.com/luizao-f/sistema-emprestimo-financeiro/pkg/id"
)

var ErrValidation = errors.New("validation failed")

type Usecase struct {
	repo partnerDomain.Repository
	log  *zap.Logger
}

func NewUsecase(r partnerDomain.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, log: log}
}

type PartnerInput struct {
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone"`
	DefaultParticipation decimal.Decimal `json:"default_participation"`
}

type PartnerDTO struct {
	PartnerID            string          `json:"partner_id"`
	Name                 string          `json:"name"`
	Email                string          `json:"email,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	DefaultParticipation decimal.Decimal `json:"default_participation"`
}

func validate(in PartnerInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.DefaultParticipation.IsNegative() || in.DefaultParticipation.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: default participation must be between 0 and 100", ErrValidation)
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in PartnerInput) (*PartnerDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p := &partnerDomain.Partner{
		PartnerID:            id.NewID32(),
		Name:                 in.Name,
		Email:                in.Email,
		Phone:                in.Phone,
		DefaultParticipation: in.DefaultParticipation,
	}
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	u.log.Info("partner created", zap.String("partner_id", p.PartnerID), zap.String("name", p.Name))
	return toDTO(p), nil
}

func (u *Usecase) Get(ctx context.Context, partnerID string) (*PartnerDTO, error) {
	p, err := u.repo.GetByPartnerID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) List(ctx context.Context) ([]PartnerDTO, error) {
	partners, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PartnerDTO, 0, len(partners))
	for i := range partners {
		out = append(out, *toDTO(&partners[i]))
	}
	return out, nil
}

func (u *Usecase) Update(ctx context.Context, partnerID string, in PartnerInput) (*PartnerDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p, err := u.repo.GetByPartnerID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Email = in.Email
	p.Phone = in.Phone
	p.DefaultParticipation = in.DefaultParticipation
	if err := u.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) Delete(ctx context.Context, partnerID string) error {
	return u.repo.Delete(ctx, partnerID)
}

func toDTO(p *partnerDomain.Partner) *PartnerDTO {
	return &PartnerDTO{
		PartnerID:            p.PartnerID,
		Name:                 p.Name,
		Email:                p.Email,
		Phone:                p.Phone,
		DefaultParticipation: p.DefaultParticipation,
	}
}
