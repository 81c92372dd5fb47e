package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/client"
	"printshop-backend/internal/model"
	"printshop-backend/internal/repository"
)

type WebhookService interface {
	// HandleWebhook authenticates and applies one provider delivery. A nil
	// return means the delivery should be acknowledged with 2xx; fulfillment
	// runs detached and never affects the result.
	HandleWebhook(ctx context.Context, signatureHeader string, body []byte) error

	// Wait blocks until all detached fulfillment dispatches have finished.
	// Used on shutdown and by tests.
	Wait()
}

type webhookServiceImpl struct {
	payment    client.PaymentClient
	orderRepo  repository.OrderRepository
	eventRepo  repository.WebhookEventRepository
	dispatcher FulfillmentDispatcher

	dispatches sync.WaitGroup
}

func NewWebhookService(
	payment client.PaymentClient,
	orderRepo repository.OrderRepository,
	eventRepo repository.WebhookEventRepository,
	dispatcher FulfillmentDispatcher,
) WebhookService {
	return &webhookServiceImpl{
		payment:    payment,
		orderRepo:  orderRepo,
		eventRepo:  eventRepo,
		dispatcher: dispatcher,
	}
}

func (s *webhookServiceImpl) HandleWebhook(ctx context.Context, signatureHeader string, body []byte) error {
	// Authenticate over the exact raw bytes before trusting any field.
	if err := s.payment.VerifyWebhookSignature(signatureHeader, body); err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	event, err := s.payment.ParseEvent(body)
	if err != nil {
		return fmt.Errorf("parse webhook event: %w", err)
	}

	if event.Type != model.StripeEventCheckoutCompleted {
		log.Printf("webhook: ignoring event type %s", event.Type)
		return nil
	}

	seen, err := s.eventRepo.Exists(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("check event id: %w", err)
	}
	if seen {
		log.Printf("webhook: event %s already processed", event.ID)
		return nil
	}

	session := event.Data.Object
	order, err := s.orderRepo.FindBySessionID(ctx, session.ID)
	if errors.Is(err, apperr.ErrNotFound) {
		// Ack anyway; a retry will not make the order appear.
		log.Printf("webhook: no order for session %s", session.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find order by session: %w", err)
	}

	applied, err := s.orderRepo.MarkPaid(ctx, session.ID, session.PaymentIntent, time.Now())
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if applied {
		s.dispatchAsync(order.ID)
	} else {
		log.Printf("webhook conflict ignored: order %s not in %s", order.ID, model.OrderStatusPending)
	}

	if err := s.eventRepo.MarkProcessed(ctx, event.ID, event.Type); err != nil {
		log.Printf("webhook: mark event %s processed: %v", event.ID, err)
	}

	return nil
}

// dispatchAsync hands the order to the POD dispatcher without awaiting it.
// The webhook response must not depend on fulfillment, so errors end here,
// in the log.
func (s *webhookServiceImpl) dispatchAsync(orderID string) {
	s.dispatches.Add(1)
	go func() {
		defer s.dispatches.Done()
		if err := s.dispatcher.Dispatch(context.Background(), orderID); err != nil {
			log.Printf("fulfillment dispatch for order %s: %v", orderID, err)
		}
	}()
}

func (s *webhookServiceImpl) Wait() {
	s.dispatches.Wait()
}
