package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"printshop-backend/internal/client"
	"printshop-backend/internal/config"
	"printshop-backend/internal/repository"
	"printshop-backend/internal/server"
	"printshop-backend/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	stripeClient := client.NewStripeClient(&cfg.Stripe)
	printfulClient := client.NewPrintfulClient(&cfg.Printful)

	shopItemRepo := repository.NewShopItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if err := shopItemRepo.Seed(context.Background()); err != nil {
		log.Println("seed catalog:", err)
	}

	dispatcher := service.NewFulfillmentDispatcher(orderRepo, shopItemRepo, printfulClient)
	checkoutService := service.NewCheckoutService(shopItemRepo, orderRepo, stripeClient, cfg.BaseURL, cfg.CreatorSharePercent)
	webhookService := service.NewWebhookService(stripeClient, orderRepo, webhookEventRepo, dispatcher)
	shopService := service.NewShopService(shopItemRepo, orderRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(checkoutService, webhookService, shopService, cfg.JWTSecret)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}

	// Let in-flight fulfillment dispatches finish before exiting.
	webhookService.Wait()
}
