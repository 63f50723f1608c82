package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/grocerylab/grocery-backend/internal/config"
	"github.com/grocerylab/grocery-backend/internal/db"
	"github.com/grocerylab/grocery-backend/internal/httpx"
	"github.com/grocerylab/grocery-backend/internal/order"
	"github.com/grocerylab/grocery-backend/internal/product"
	"github.com/grocerylab/grocery-backend/internal/user"
	"github.com/grocerylab/grocery-backend/internal/wallet"
)

// @title Grocery Backend API
// @version 1.0
// @description Wallet top-up, product listing and order placement.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	defer pool.Close()

	ledger := wallet.NewLedger(pool, cfg.TopUpCap, cfg.LockTimeout)
	coordinator := order.NewCoordinator(pool, cfg.LockTimeout)
	orders := order.NewPGRepo(pool)
	users := user.NewPGRepo(pool)

	var products product.Repository = product.NewPGRepo(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			logrus.WithError(err).Warn("redis unavailable, catalog cache disabled")
		} else {
			products = product.NewCachedRepo(products, rdb, cfg.ProductCacheTTL)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/health", healthHandler)

	r.POST("/topup", topupHandler(ledger))
	r.POST("/wallet/adjustments", adjustmentHandler(ledger))
	r.GET("/wallet/:user_id", walletHandler(ledger))
	r.GET("/wallet/:user_id/transactions", walletHistoryHandler(ledger))

	r.GET("/products", listProductsHandler(products))
	r.GET("/products/:id", getProductHandler(products))

	r.POST("/orders", createOrderHandler(coordinator))
	r.GET("/orders/:id", getOrderHandler(orders))
	r.GET("/orders/:id/items", getOrderItemsHandler(orders))
	r.GET("/users/:user_id", getUserHandler(users))
	r.GET("/users/:user_id/orders", listOrdersByUserHandler(orders))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logrus.Infof("grocery-server listening on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
