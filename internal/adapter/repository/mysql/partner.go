package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	partnerDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/partner"
)

type PartnerRepository struct{ db *gorm.DB }

func NewPartnerRepository(db *gorm.DB) *PartnerRepository { return &PartnerRepository{db: db} }

func (r *PartnerRepository) Create(ctx context.Context, p *partnerDomain.Partner) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PartnerRepository) GetByPartnerID(ctx context.Context, partnerID string) (*partnerDomain.Partner, error) {
	var out partnerDomain.Partner
	res := r.db.WithContext(ctx).Where("partner_id = ?", partnerID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, partnerDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PartnerRepository) List(ctx context.Context) ([]partnerDomain.Partner, error) {
	var out []partnerDomain.Partner
	return out, r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
}

func (r *PartnerRepository) Save(ctx context.Context, p *partnerDomain.Partner) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PartnerRepository) Delete(ctx context.Context, partnerID string) error {
	res := r.db.WithContext(ctx).Where("partner_id = ?", partnerID).Delete(&partnerDomain.Partner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return partnerDomain.ErrNotFound
	}
	return nil
}
