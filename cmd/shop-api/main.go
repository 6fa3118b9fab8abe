package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/shopcore/shop-backend/docs"
	"github.com/shopcore/shop-backend/internal/auth"
	"github.com/shopcore/shop-backend/internal/category"
	"github.com/shopcore/shop-backend/internal/config"
	"github.com/shopcore/shop-backend/internal/httpx"
	"github.com/shopcore/shop-backend/internal/metrics"
	ord "github.com/shopcore/shop-backend/internal/order"
	prod "github.com/shopcore/shop-backend/internal/product"
)

//	@title        Shop Backend API
//	@version      1.0
//	@description  Product/category/order management with JWT admin and customer auth.
//	@BasePath     /
//	@securityDefinitions.apikey BearerAuth
//	@in   header
//	@name Authorization

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("postgres connect failed")
	}
	defer pool.Close()

	productRepo := prod.NewPGRepo(pool)
	categoryRepo := category.NewPGRepo(pool)
	orderRepo := ord.NewPGRepo(pool)
	adminRepo := auth.NewPGAdminRepo(pool)
	customerRepo := auth.NewPGCustomerRepo(pool)
	orderSvc := ord.NewService(orderRepo, productRepo)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// static admin dashboard (file serving only)
	r.Static("/admin", cfg.AdminDashDir)

	api := r.Group("/api")
	{
		api.POST("/auth/register", customerRegisterHandler(customerRepo))
		api.POST("/auth/login", customerLoginHandler(customerRepo, cfg.JWTSecret, cfg.JWTTTL))
		api.POST("/admin/login", adminLoginHandler(adminRepo, cfg.JWTSecret, cfg.JWTTTL))

		api.GET("/products", listProductsHandler(productRepo))
		api.GET("/products/:id", getProductHandler(productRepo))
		api.GET("/categories", listCategoriesHandler(categoryRepo))

		api.POST("/orders", createOrderHandler(orderSvc))

		authed := api.Group("", httpx.Auth(cfg.JWTSecret))
		{
			authed.POST("/products", createProductHandler(productRepo))
			authed.PUT("/products/:id", updateProductHandler(productRepo))
			authed.DELETE("/products/:id", deleteProductHandler(productRepo))

			authed.POST("/categories", createCategoryHandler(categoryRepo))
			authed.PUT("/categories/:id", updateCategoryHandler(categoryRepo))
			authed.DELETE("/categories/:id", deleteCategoryHandler(categoryRepo))

			authed.GET("/orders", listOrdersHandler(orderRepo))
			authed.GET("/orders/:id", getOrderHandler(orderRepo))
			authed.PUT("/orders/:id/status", updateOrderStatusHandler(orderSvc))
			authed.DELETE("/orders/:id", httpx.RequireRole(auth.RoleSuperadmin), deleteOrderHandler(orderRepo))
		}
	}

	log.WithField("addr", cfg.HTTPAddr).Info("shop-api listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
