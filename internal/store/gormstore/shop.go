package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	storemodel "dammed/internal/store/model"

	"github.com/shopspring/decimal"
)

// ShopItem 社区商店条目的对外视图。
type ShopItem struct {
	ID          int64           `json:"id"`
	Seller      string          `json:"seller"`
	Name        string          `json:"item_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AddShopItem 上架一件物品。
func (s *GormStore) AddShopItem(ctx context.Context, item ShopItem) (int64, error) {
	if strings.TrimSpace(item.Seller) == "" || strings.TrimSpace(item.Name) == "" {
		return 0, fmt.Errorf("shop item 需要 seller 与 item_name")
	}
	if item.Price.IsNegative() {
		return 0, fmt.Errorf("shop item 价格不能为负")
	}
	m := storemodel.ShopItemModel{
		Seller:        strings.TrimSpace(item.Seller),
		Name:          strings.TrimSpace(item.Name),
		Description:   item.Description,
		Price:         item.Price.String(),
		ImagePath:     item.ImagePath,
		CreatedAtUnix: time.Now().Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// ListShopItems 返回全部在售物品，新品在前。
func (s *GormStore) ListShopItems(ctx context.Context) ([]ShopItem, error) {
	var rows []storemodel.ShopItemModel
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ShopItem, 0, len(rows))
	for _, m := range rows {
		price, err := decimal.NewFromString(m.Price)
		if err != nil {
			price = decimal.Zero
		}
		out = append(out, ShopItem{
			ID:          m.ID,
			Seller:      m.Seller,
			Name:        m.Name,
			Description: m.Description,
			Price:       price,
			ImagePath:   m.ImagePath,
			CreatedAt:   time.Unix(m.CreatedAtUnix, 0).UTC(),
		})
	}
	return out, nil
}
