package partnermock

import (
	"context"

	domain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/partner"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, p *domain.Partner) error
	GetByPartnerIDFn func(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListFn           func(ctx context.Context) ([]domain.Partner, error)
	SaveFn           func(ctx context.Context, p *domain.Partner) error
	DeleteFn         func(ctx context.Context, partnerID string) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Partner) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *Repo) GetByPartnerID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	if m.GetByPartnerIDFn != nil {
		return m.GetByPartnerIDFn(ctx, partnerID)
	}
	return nil, context.Canceled
}
func (m *Repo) List(ctx context.Context) ([]domain.Partner, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
func (m *Repo) Save(ctx context.Context, p *domain.Partner) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
func (m *Repo) Delete(ctx context.Context, partnerID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, partnerID)
	}
	return nil
}
