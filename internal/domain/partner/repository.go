package partner

import "context"

type Repository interface {
	Create(ctx context.Context, p *Partner) error
	GetByPartnerID(ctx context.Context, partnerID string) (*Partner, error)
	List(ctx context.Context) ([]Partner, error)
	Save(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, partnerID string) error
}
