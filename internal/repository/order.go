package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*model.Order, error)

	// Guarded transitions. Each is a single conditional update keyed on the
	// expected source status; the bool result reports whether the
	// transition was applied. RowsAffected == 0 means the order was not in
	// the expected state (redelivery, concurrent worker) and nothing was
	// written.
	MarkPaid(ctx context.Context, sessionID, paymentID string, paidAt time.Time) (bool, error)
	BeginFulfillment(ctx context.Context, orderID string) (bool, error)
	CompleteFulfillment(ctx context.Context, orderID, podOrderID string) (bool, error)
	FailFulfillment(ctx context.Context, orderID string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order for session %s", apperr.ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByBuyer(ctx context.Context, buyerID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, sessionID, paymentID string, paidAt time.Time) (bool, error) {
	return r.transition(ctx,
		"session_id = ?", sessionID,
		model.OrderStatusPending,
		map[string]interface{}{
			"status":     model.OrderStatusPaid,
			"payment_id": paymentID,
			"paid_at":    paidAt,
			"updated_at": time.Now(),
		})
}

func (r *orderRepoImpl) BeginFulfillment(ctx context.Context, orderID string) (bool, error) {
	return r.transition(ctx,
		"id = ?", orderID,
		model.OrderStatusPaid,
		map[string]interface{}{
			"status":     model.OrderStatusFulfillmentRequested,
			"updated_at": time.Now(),
		})
}

func (r *orderRepoImpl) CompleteFulfillment(ctx context.Context, orderID, podOrderID string) (bool, error) {
	return r.transition(ctx,
		"id = ?", orderID,
		model.OrderStatusFulfillmentRequested,
		map[string]interface{}{
			"status":       model.OrderStatusFulfilled,
			"pod_order_id": podOrderID,
			"updated_at":   time.Now(),
		})
}

func (r *orderRepoImpl) FailFulfillment(ctx context.Context, orderID string) (bool, error) {
	return r.transition(ctx,
		"id = ?", orderID,
		model.OrderStatusFulfillmentRequested,
		map[string]interface{}{
			"status":     model.OrderStatusFailed,
			"updated_at": time.Now(),
		})
}

// transition performs the compare-and-swap: update only when the row still
// holds the expected source status. Safe under concurrent webhook
// redelivery without explicit locking.
func (r *orderRepoImpl) transition(ctx context.Context, keyQuery string, keyArg, fromStatus string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where(keyQuery, keyArg).
		Where("status = ?", fromStatus).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
