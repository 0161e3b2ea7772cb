package models

// AssetKind represents the kind of tracked asset.
type AssetKind string

const (
	AssetKindStock AssetKind = "stock"
	AssetKindETF   AssetKind = "etf"
)

// Asset represents a tracked ticker owned by a single user. Assets are
// created once and never updated; deleting an asset removes its
// transactions with it.
type Asset struct {
	Base
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_assets_user_symbol" json:"user_id"`
	Symbol   string    `gorm:"not null;uniqueIndex:uq_assets_user_symbol" json:"symbol"`
	Name     string    `gorm:"not null" json:"name"`
	Exchange string    `json:"exchange"`
	Kind     AssetKind `gorm:"not null;default:'stock'" json:"kind"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:AssetID" json:"transactions,omitempty"`
}
