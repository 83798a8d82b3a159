package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tra18/systeme-gestion-stock/internal/application/auth"
	"github.com/tra18/systeme-gestion-stock/internal/application/purchases"
	"github.com/tra18/systeme-gestion-stock/internal/application/requests"
	"github.com/tra18/systeme-gestion-stock/internal/application/stock"
	"github.com/tra18/systeme-gestion-stock/internal/application/suppliers"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WorkflowUC *requests.WorkflowUseCase
	LedgerUC   *stock.LedgerUseCase
	PurchaseUC *purchases.RecordUseCase
	SupplierUC *suppliers.UseCase
	AuthUC     *auth.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; register protegido por manage_users en el use case)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Post("/auth/register", authHandler.Register)
	protected.Get("/users", authHandler.ListUsers)

	// Workflow de demandas de compra
	reqs := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.WorkflowUC)
	reqs.Post("/", requestHandler.Create)
	reqs.Get("/", requestHandler.List)
	reqs.Get("/stats", requestHandler.Stats)
	reqs.Get("/:id", requestHandler.GetByID)
	reqs.Post("/:id/dg-decision", requestHandler.ApproveDG)
	reqs.Post("/:id/purchase-approval", requestHandler.ApprovePurchase)
	reqs.Post("/:id/receive", requestHandler.Receive)
	reqs.Post("/:id/complete", requestHandler.Complete)

	// Stock: lecturas abiertas a cualquier autenticado; mutaciones requieren manage_stock
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stockGroup.Get("/items", stockHandler.ListItems)
	stockGroup.Get("/items/:id", stockHandler.GetItem)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/alerts", stockHandler.Alerts)
	stockGroup.Get("/reorder-list", stockHandler.ReorderList)

	manageStock := RequireCapability(entity.CapManageStock)
	stockGroup.Post("/items", manageStock, stockHandler.CreateItem)
	stockGroup.Put("/items/:id", manageStock, stockHandler.UpdateItem)
	stockGroup.Delete("/items/:id", manageStock, stockHandler.DeactivateItem)
	stockGroup.Post("/movements", manageStock, stockHandler.PostMovement)
	stockGroup.Post("/movements/:id/reverse", manageStock, stockHandler.ReverseMovement)

	// Achats directos (capability purchasing)
	purchasing := RequireCapability(entity.CapPurchasing)
	purchaseGroup := protected.Group("/purchases", purchasing)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchaseGroup.Post("/", purchaseHandler.Record)
	purchaseGroup.Get("/", purchaseHandler.List)
	purchaseGroup.Get("/:id", purchaseHandler.GetByID)

	// Proveedores (lectura autenticada; mutaciones gateadas en el use case)
	supplierGroup := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	supplierGroup.Post("/", supplierHandler.Create)
	supplierGroup.Get("/", supplierHandler.List)
	supplierGroup.Get("/:id", supplierHandler.GetByID)
	supplierGroup.Put("/:id", supplierHandler.Update)
	supplierGroup.Delete("/:id", supplierHandler.Deactivate)
}
