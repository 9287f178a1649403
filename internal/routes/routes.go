package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "invoicing-backend/internal/handlers"
	"invoicing-backend/internal/mail"
	"invoicing-backend/internal/repository"
	"invoicing-backend/internal/services/document"
	service "invoicing-backend/internal/services/invoice"
	"invoicing-backend/internal/services/numbering"
	"invoicing-backend/internal/services/party"
	"invoicing-backend/internal/services/validation"
	"invoicing-backend/internal/storage"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, store storage.ObjectStorage, mailer mail.Mailer) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	contactRepo := repository.NewContactRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	invoiceService := service.NewService(
		invoiceRepo,
		companyRepo,
		contactRepo,
		party.NewResolver(contactRepo),
		validation.NewValidator(),
		numbering.NewAllocator(sequenceRepo),
		document.NewRenderer(),
		document.NewSerializer(),
		document.NewEmbedder(),
		store,
	)

	invoiceHandler := handler.NewInvoiceHandler(invoiceService, mailer)
	companyHandler := handler.NewCompanyHandler(companyRepo)
	contactHandler := handler.NewContactHandler(contactRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	scoped := api.Group("", handler.CompanyScope())

	invoices := scoped.Group("/invoices")
	{
		invoices.POST("", invoiceHandler.CreateDraft)
		invoices.GET("", invoiceHandler.List)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.PUT("/:id", invoiceHandler.UpdateDraft)
		invoices.DELETE("/:id", invoiceHandler.DeleteDraft)
		invoices.POST("/:id/finalize", invoiceHandler.Finalize)
		invoices.POST("/:id/cancel", invoiceHandler.Cancel)
		invoices.POST("/:id/status", invoiceHandler.SetStatus)
		invoices.POST("/:id/send", invoiceHandler.Send)
		invoices.GET("/:id/documents", invoiceHandler.Documents)
	}

	scoped.GET("/company", companyHandler.Get)
	scoped.PUT("/company", companyHandler.Save)

	contacts := scoped.Group("/contacts")
	{
		contacts.POST("", contactHandler.Create)
		contacts.GET("", contactHandler.List)
		contacts.GET("/:id", contactHandler.Get)
		contacts.PUT("/:id", contactHandler.Update)
	}
}
