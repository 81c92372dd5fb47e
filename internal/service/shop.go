package service

import (
	"context"

	"printshop-backend/internal/model"
	"printshop-backend/internal/repository"
)

// ShopService is the read side: catalog browsing and the buyer's order
// history. It never mutates anything.
type ShopService interface {
	ListItems(ctx context.Context) ([]*model.ShopItem, error)
	GetItem(ctx context.Context, itemID string) (*model.ShopItem, error)
	ListOrders(ctx context.Context, buyerID string) ([]*model.Order, error)
}

type shopServiceImpl struct {
	shopItemRepo repository.ShopItemRepository
	orderRepo    repository.OrderRepository
}

func NewShopService(shopItemRepo repository.ShopItemRepository, orderRepo repository.OrderRepository) ShopService {
	return &shopServiceImpl{
		shopItemRepo: shopItemRepo,
		orderRepo:    orderRepo,
	}
}

func (s *shopServiceImpl) ListItems(ctx context.Context) ([]*model.ShopItem, error) {
	return s.shopItemRepo.List(ctx)
}

func (s *shopServiceImpl) GetItem(ctx context.Context, itemID string) (*model.ShopItem, error) {
	return s.shopItemRepo.FindByID(ctx, itemID)
}

func (s *shopServiceImpl) ListOrders(ctx context.Context, buyerID string) ([]*model.Order, error) {
	return s.orderRepo.ListByBuyer(ctx, buyerID)
}
