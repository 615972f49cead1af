package models

import "github.com/google/uuid"

// SelectableListItem backs dropdown answers. Custom-question answers store
// the item id; resolving the human-readable label requires this lookup.
type SelectableListItem struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	ListKey  string    `gorm:"column:list_key;type:text;not null;index"`
	Code     string    `gorm:"column:code;type:text;not null"`
	Label    string    `gorm:"column:label;type:text;not null"`
}
