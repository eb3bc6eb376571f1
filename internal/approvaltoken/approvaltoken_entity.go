package approvaltoken

import (
	"time"

	"github.com/google/uuid"
)

type ActionToken struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID      uuid.UUID `gorm:"type:uuid;not null;index:idx_action_tokens_request"`
	Token          string    `gorm:"type:varchar(128);not null;uniqueIndex:uq_action_tokens_token"`
	Action         string    `gorm:"type:varchar(10);not null"`
	RecipientEmail string    `gorm:"type:varchar(255);not null"`
	ExpiresAt      time.Time `gorm:"not null"`
	UsedAt         *time.Time
	IPAddress      *string `gorm:"type:varchar(64)"`
	UserAgent      *string `gorm:"type:text"`
	CreatedAt      time.Time
}

func (ActionToken) TableName() string {
	return "action_tokens"
}
