package model

import (
	"gorm.io/datatypes"
)

// UserModel 认证用户。
type UserModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	Username      string `gorm:"column:username;uniqueIndex"`
	PasswordHash  string `gorm:"column:password_hash"`
	CreatedAtUnix int64  `gorm:"column:created_at"`
}

func (UserModel) TableName() string { return "users" }

// LedgerEntryModel 台账条目：只追加，不更新、不删除。
// Detail 保存完整的 ResultRecord JSON，其余列为查询/聚合用的冗余快照。
type LedgerEntryModel struct {
	ID                 int64          `gorm:"column:id;primaryKey"`
	UserID             int64          `gorm:"column:user_id;index"`
	TraceID            string         `gorm:"column:trace_id;index"`
	ItemName           string         `gorm:"column:item_name"`
	Material           string         `gorm:"column:material"`
	Condition          string         `gorm:"column:condition"`
	Quantity           int            `gorm:"column:quantity"`
	Category           string         `gorm:"column:category"`
	SustainabilityType string         `gorm:"column:sustainability_type"`
	BestAction         string         `gorm:"column:best_action"`
	Score              int            `gorm:"column:score"`
	CO2SavedKg         float64        `gorm:"column:co2_saved_kg"`
	Points             int64          `gorm:"column:points"`
	Credits            int64          `gorm:"column:credits"`
	CashINR            string         `gorm:"column:cash_inr"`
	ResaleValue        string         `gorm:"column:resale_value"`
	Detail             datatypes.JSON `gorm:"column:detail"`
	CreatedAtUnix      int64          `gorm:"column:created_at"`
}

func (LedgerEntryModel) TableName() string { return "ledger_entries" }

// ShopItemModel 社区商店条目。
type ShopItemModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	Seller        string `gorm:"column:seller"`
	Name          string `gorm:"column:item_name"`
	Description   string `gorm:"column:description"`
	Price         string `gorm:"column:price"`
	ImagePath     string `gorm:"column:image_path"`
	CreatedAtUnix int64  `gorm:"column:created_at"`
}

func (ShopItemModel) TableName() string { return "shop_items" }
