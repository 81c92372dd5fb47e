package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/client"
	"printshop-backend/internal/dto"
	"printshop-backend/internal/model"
	"printshop-backend/internal/repository"
)

type CheckoutService interface {
	// CreateSession opens a hosted payment session and persists the
	// pending Order tied to it. Returns the redirect URL for the buyer.
	CreateSession(ctx context.Context, buyerID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	shopItemRepo        repository.ShopItemRepository
	orderRepo           repository.OrderRepository
	payment             client.PaymentClient
	serviceBaseURL      string
	creatorSharePercent int64
}

func NewCheckoutService(
	shopItemRepo repository.ShopItemRepository,
	orderRepo repository.OrderRepository,
	payment client.PaymentClient,
	serviceBaseURL string,
	creatorSharePercent int64,
) CheckoutService {
	return &checkoutServiceImpl{
		shopItemRepo:        shopItemRepo,
		orderRepo:           orderRepo,
		payment:             payment,
		serviceBaseURL:      serviceBaseURL,
		creatorSharePercent: creatorSharePercent,
	}
}

func (s *checkoutServiceImpl) CreateSession(ctx context.Context, buyerID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if buyerID == "" {
		return nil, fmt.Errorf("%w: missing caller identity", apperr.ErrUnauthenticated)
	}
	if req.ItemID == "" || req.Size == "" {
		return nil, fmt.Errorf("%w: item_id and size are required", apperr.ErrInvalidArgument)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1", apperr.ErrInvalidArgument)
	}
	if req.Recipient.Name == "" || req.Recipient.Address == "" || req.Recipient.Country == "" {
		return nil, fmt.Errorf("%w: recipient name, address and country are required", apperr.ErrInvalidArgument)
	}

	item, err := s.shopItemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("find shop item: %w", err)
	}

	variant, err := s.shopItemRepo.ResolveVariant(ctx, req.ItemID, req.Size)
	if err != nil {
		return nil, fmt.Errorf("resolve variant: %w", err)
	}

	amount := variant.PriceCents * int64(req.Quantity)
	creatorCut := amount * s.creatorSharePercent / 100
	platformCut := amount - creatorCut

	// The metadata bag lets the webhook handler act without a second
	// catalog read.
	session, err := s.payment.CreateCheckoutSession(ctx, &client.CheckoutSessionParams{
		Name:            fmt.Sprintf("%s Print - %s", req.Size, item.Title),
		Description:     item.Description,
		Currency:        variant.Currency,
		UnitAmountCents: variant.PriceCents,
		Quantity:        req.Quantity,
		SuccessURL:      s.serviceBaseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       s.serviceBaseURL + "/shop/" + item.ID,
		Metadata: map[string]string{
			"item_id":      item.ID,
			"size":         req.Size,
			"quantity":     strconv.FormatInt(int64(req.Quantity), 10),
			"seller_id":    item.CreatorID,
			"creator_cut":  strconv.FormatInt(creatorCut, 10),
			"platform_cut": strconv.FormatInt(platformCut, 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	// Persist only after the provider call succeeded so no partial Order
	// is left behind on any earlier failure.
	order := &model.Order{
		ID:               uuid.NewString(),
		ShopItemID:       item.ID,
		SizeLabel:        variant.SizeLabel,
		UnitPriceCents:   variant.PriceCents,
		Quantity:         req.Quantity,
		AmountCents:      amount,
		Currency:         variant.Currency,
		CreatorCutCents:  creatorCut,
		PlatformCutCents: platformCut,
		BuyerID:          buyerID,
		CreatorID:        item.CreatorID,
		SessionID:        session.SessionID,
		Status:           model.OrderStatusPending,
		RecipientName:    req.Recipient.Name,
		RecipientAddress: req.Recipient.Address,
		RecipientCity:    req.Recipient.City,
		RecipientState:   req.Recipient.State,
		RecipientCountry: req.Recipient.Country,
		RecipientZip:     req.Recipient.Zip,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}

	return &dto.CheckoutResponse{
		RedirectURL: session.RedirectURL,
	}, nil
}
