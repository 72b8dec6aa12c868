package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/lateralabs/trailblazer/internal/server/http/handlers"
	"github.com/lateralabs/trailblazer/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	userHandler := handlers.NewUserHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	saleInfoHandler := handlers.NewSaleInfoHandler(facade)

	api := engine.Group("/api/v1")

	user := api.Group("/user")
	user.POST("/register", userHandler.Register)
	user.GET("/:userId/bucket", userHandler.Bucket)
	user.POST("/:userId/bucket/add", userHandler.AddBucketItem)
	user.DELETE("/:userId/bucket/:productId", userHandler.RemoveBucketItem)
	user.GET("/:userId/orders", orderHandler.ListByUser)

	api.POST("/category/register", productHandler.CreateCategory)

	product := api.Group("/product")
	product.POST("/register", productHandler.CreateProduct)
	product.GET("/:productId", productHandler.Get)

	order := api.Group("/order")
	order.POST("/register", orderHandler.Create)
	order.GET("/:orderId", orderHandler.Get)
	order.PUT("/:orderId/update", orderHandler.UpdateState)
	order.DELETE("/:orderId/delete", orderHandler.Delete)

	saleInfo := api.Group("/saleinfo")
	saleInfo.POST("/register", saleInfoHandler.Create)
	saleInfo.GET("/by-date", saleInfoHandler.GetByDate)
	saleInfo.POST("/timesale/begin", saleInfoHandler.BeginTimeSale)
	saleInfo.GET("/:saleInfoId", saleInfoHandler.Get)
	saleInfo.PUT("/:saleInfoId/update", saleInfoHandler.Update)
	saleInfo.DELETE("/:saleInfoId/delete", saleInfoHandler.Delete)

	return engine
}
