package service

import (
	"context"
	"fmt"
	"log"

	"printshop-backend/internal/client"
	"printshop-backend/internal/model"
	"printshop-backend/internal/repository"
)

// FulfillmentDispatcher drives a paid Order to the POD provider. The
// dispatch attempt itself moves the order past paid; the provider outcome
// then settles it at fulfilled or failed. There is no automatic retry:
// failed orders are recovered by support out of band.
type FulfillmentDispatcher interface {
	Dispatch(ctx context.Context, orderID string) error
}

type fulfillmentDispatcherImpl struct {
	orderRepo    repository.OrderRepository
	shopItemRepo repository.ShopItemRepository
	pod          client.PodClient
}

func NewFulfillmentDispatcher(
	orderRepo repository.OrderRepository,
	shopItemRepo repository.ShopItemRepository,
	pod client.PodClient,
) FulfillmentDispatcher {
	return &fulfillmentDispatcherImpl{
		orderRepo:    orderRepo,
		shopItemRepo: shopItemRepo,
		pod:          pod,
	}
}

func (d *fulfillmentDispatcherImpl) Dispatch(ctx context.Context, orderID string) error {
	order, err := d.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	// Claim the order. Losing this CAS means another dispatch already ran
	// (or the order never got paid); either way there is nothing to do.
	applied, err := d.orderRepo.BeginFulfillment(ctx, orderID)
	if err != nil {
		return fmt.Errorf("begin fulfillment: %w", err)
	}
	if !applied {
		log.Printf("dispatch conflict ignored: order %s not in %s", orderID, model.OrderStatusPaid)
		return nil
	}

	item, err := d.shopItemRepo.FindByID(ctx, order.ShopItemID)
	if err != nil {
		d.markFailed(ctx, orderID)
		return fmt.Errorf("load shop item: %w", err)
	}
	variant, err := d.shopItemRepo.ResolveVariant(ctx, order.ShopItemID, order.SizeLabel)
	if err != nil {
		d.markFailed(ctx, orderID)
		return fmt.Errorf("resolve variant: %w", err)
	}

	result, err := d.pod.CreateOrder(ctx, &client.PodOrderRequest{
		// Our order id doubles as the provider-side idempotency reference.
		ExternalID: order.ID,
		Recipient: client.PodRecipient{
			Name:        order.RecipientName,
			Address1:    order.RecipientAddress,
			City:        order.RecipientCity,
			StateCode:   order.RecipientState,
			CountryCode: order.RecipientCountry,
			Zip:         order.RecipientZip,
		},
		Items: []client.PodOrderItem{
			{
				VariantID: variant.PodVariantID,
				Quantity:  order.Quantity,
				Files:     []client.PodOrderFile{{URL: item.ImageURL}},
			},
		},
	})
	if err != nil {
		d.markFailed(ctx, orderID)
		return fmt.Errorf("submit pod order: %w", err)
	}

	applied, err = d.orderRepo.CompleteFulfillment(ctx, orderID, result.OrderID)
	if err != nil {
		return fmt.Errorf("record pod acknowledgment: %w", err)
	}
	if !applied {
		log.Printf("fulfillment conflict ignored: order %s moved while dispatching", orderID)
	}

	return nil
}

func (d *fulfillmentDispatcherImpl) markFailed(ctx context.Context, orderID string) {
	if _, err := d.orderRepo.FailFulfillment(ctx, orderID); err != nil {
		log.Printf("mark order %s failed: %v", orderID, err)
	}
}
