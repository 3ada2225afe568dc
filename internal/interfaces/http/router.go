package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Isaac-VelizC/localstock-backend/internal/application/auth"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/inventory"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/purchase"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/sale"
	"github.com/Isaac-VelizC/localstock-backend/internal/application/usecase"
	"github.com/Isaac-VelizC/localstock-backend/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PurchaseUC  *purchase.UseCase
	SaleUC      *sale.UseCase
	InventoryUC *inventory.QueryUseCase
	ProductUC   *usecase.ProductUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Purchases (protegido)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Put("/:id/confirm", purchaseHandler.Confirm)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	purchases.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), purchaseHandler.Delete)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Put("/:id", saleHandler.Update)
	sales.Put("/:id/confirm", saleHandler.Confirm)
	sales.Post("/:id/cancel", saleHandler.Cancel)
	sales.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleVendedor), saleHandler.Delete)

	// Libro de inventario (protegido, solo lectura)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Get("/products/:id/transactions", inventoryHandler.ListByProduct)
	invGroup.Get("/warehouses/:id/transactions", inventoryHandler.ListByWarehouse)
}
