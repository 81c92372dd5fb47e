package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/model"
)

type ShopItemRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, itemID string) (*model.ShopItem, error)
	List(ctx context.Context) ([]*model.ShopItem, error)
	// ResolveVariant is the catalog lookup: item id + size label to the
	// priced variant, or apperr.ErrNotFound.
	ResolveVariant(ctx context.Context, itemID, sizeLabel string) (*model.PrintVariant, error)
}

type shopItemRepoImpl struct {
	db *gorm.DB
}

func NewShopItemRepository(db *gorm.DB) ShopItemRepository {
	return &shopItemRepoImpl{
		db: db,
	}
}

func (r *shopItemRepoImpl) Seed(ctx context.Context) error {
	items := []model.ShopItem{
		{
			ID: "aurora-ridge", Title: "Aurora Ridge", CreatorID: "creator-ansel",
			Description: "Long-exposure panorama over the northern ridge",
			ImageURL:    "https://cdn.example.com/prints/aurora-ridge.jpg",
			Variants: []model.PrintVariant{
				{SizeLabel: "8x10", PriceCents: 1500, Currency: "USD", PodProductID: "171", PodVariantID: "6239"},
				{SizeLabel: "12x16", PriceCents: 2400, Currency: "USD", PodProductID: "171", PodVariantID: "6240"},
				{SizeLabel: "18x24", PriceCents: 3800, Currency: "USD", PodProductID: "171", PodVariantID: "6242"},
			},
		},
		{
			ID: "tidal-glass", Title: "Tidal Glass", CreatorID: "creator-mira",
			Description: "Low tide reflections, winter light",
			ImageURL:    "https://cdn.example.com/prints/tidal-glass.jpg",
			Variants: []model.PrintVariant{
				{SizeLabel: "8x10", PriceCents: 1500, Currency: "USD", PodProductID: "171", PodVariantID: "6239"},
				{SizeLabel: "24x36", PriceCents: 5900, Currency: "USD", PodProductID: "171", PodVariantID: "6244"},
			},
		},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&items).Error
}

func (r *shopItemRepoImpl) FindByID(ctx context.Context, itemID string) (*model.ShopItem, error) {
	var item model.ShopItem
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", itemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: shop item %s", apperr.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *shopItemRepoImpl) List(ctx context.Context) ([]*model.ShopItem, error) {
	var items []*model.ShopItem
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *shopItemRepoImpl) ResolveVariant(ctx context.Context, itemID, sizeLabel string) (*model.PrintVariant, error) {
	var variant model.PrintVariant
	err := r.db.WithContext(ctx).
		Where("shop_item_id = ? AND size_label = ?", itemID, sizeLabel).
		First(&variant).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: variant %s/%s", apperr.ErrNotFound, itemID, sizeLabel)
	}
	if err != nil {
		return nil, err
	}

	return &variant, nil
}
