package partner

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("partner not found")

// Partner is a contact-directory entry for an investor or intermediary.
// DefaultParticipation pre-fills the percentage when adding them to a loan.
type Partner struct {
	ID                   uint64          `gorm:"primaryKey;column:id" json:"-"`
	PartnerID            string          `gorm:"size:32;uniqueIndex:ux_partners_pid" json:"partner_id"`
	Name                 string          `gorm:"size:128" json:"name"`
	Email                string          `gorm:"size:128" json:"email,omitempty"`
	Phone                string          `gorm:"size:32" json:"phone,omitempty"`
	DefaultParticipation decimal.Decimal `gorm:"type:decimal(6,2)" json:"default_participation"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Partner) TableName() string { return "partners" }
