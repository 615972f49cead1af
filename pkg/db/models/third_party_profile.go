package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ThirdPartyProfile is a vendor or partner under compliance review.
// The risk tier is never stored here; it is derived by joining the latest
// risk assessment row.
type ThirdPartyProfile struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	OwnerUserID  uuid.UUID `gorm:"column:owner_user_id;type:uuid;not null"`
	Name         string    `gorm:"column:name;type:text;not null"`
	CategoryCode string    `gorm:"column:category_code;type:text"`
	InternalCode *string   `gorm:"column:internal_code;type:text"`

	ContactName  string `gorm:"column:contact_name;type:text"`
	ContactEmail string `gorm:"column:contact_email;type:text"`
	ContactPhone string `gorm:"column:contact_phone;type:text"`

	AddressLine1 string `gorm:"column:address_line1;type:text"`
	AddressLine2 string `gorm:"column:address_line2;type:text"`
	City         string `gorm:"column:city;type:text"`
	Country      string `gorm:"column:country;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasContactEmail reports whether the point of contact can receive mail.
func (p ThirdPartyProfile) HasContactEmail() bool {
	return strings.TrimSpace(p.ContactEmail) != ""
}

// HasInternalCode reports whether the profile carries an internal vendor code.
func (p ThirdPartyProfile) HasInternalCode() bool {
	return p.InternalCode != nil && strings.TrimSpace(*p.InternalCode) != ""
}
