package contact

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeManager  = "manager"
	TypeReliever = "reliever"
)

type Contact struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_contacts_user_type_email"`
	ContactType  string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_contacts_user_type_email"`
	EmailAddress string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_contacts_user_type_email"`
	DisplayName  string    `gorm:"type:varchar(150);not null"`
	UsageCount   int       `gorm:"not null"`
	LastUsed     time.Time `gorm:"not null"`
	CreatedAt    time.Time
}

func (Contact) TableName() string {
	return "contacts"
}
