// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techvibe/backoffice/internal/application/service"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	JWTSecret      string
	Version        string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Version:      "dev",
	}
}

// Services are the application services the HTTP layer fronts
type Services struct {
	Documents    service.DocumentService
	Exports      service.ExportService
	Clients      service.ClientService
	Leads        service.LeadService
	Catalog      service.CatalogService
	BusinessInfo service.BusinessInfoService
	Payments     service.PaymentService
	Translation  service.TranslationService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	pinger     Pinger
	logger     Logger
}

// NewServer creates a new HTTP server with the given services. pinger may be nil.
func NewServer(config ServerConfig, services Services, pinger Pinger, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		pinger:   pinger,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware(s.config.AllowedOrigins))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.config.Version, s.pinger, s.logger)

	s.router.GET("/health", h.HealthCheck)

	v1 := s.router.Group("/api/v1")

	site := v1.Group("/site", langMiddleware())
	{
		site.GET("/business-info", h.SiteBusinessInfo)
		site.GET("/services", h.SiteServices)
		site.GET("/products", h.SiteProducts)
		site.POST("/contact", h.SubmitContact)
		site.POST("/quote-requests", h.SubmitQuoteRequest)
		site.POST("/meeting-requests", h.SubmitMeetingRequest)
	}

	admin := v1.Group("/admin", s.authMiddleware())
	{
		clients := admin.Group("/clients")
		clients.GET("", h.ListClients)
		clients.GET("/search", h.SearchClients)
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)

		s.registerDocumentRoutes(admin.Group("/invoices"), h.documentHandlers(entity.KindInvoice))
		s.registerDocumentRoutes(admin.Group("/quotations"), h.documentHandlers(entity.KindQuotation))

		admin.POST("/quotations/:id/convert", h.ConvertQuotation)

		admin.GET("/invoices/:id/payments", h.ListPayments)
		admin.POST("/invoices/:id/payments", h.RecordPayment)
		admin.GET("/invoices/:id/balance", h.InvoiceBalance)
		admin.DELETE("/payments/:id", h.DeletePayment)

		leads := admin.Group("/leads")
		leads.GET("/:kind", h.ListLeads)
		leads.PUT("/:kind/:id/status", h.SetLeadStatus)
		leads.DELETE("/:kind/:id", h.DeleteLead)

		products := admin.Group("/products")
		products.GET("", h.ListProducts)
		products.POST("", h.CreateProduct)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)

		services := admin.Group("/services")
		services.GET("", h.ListServices)
		services.POST("", h.CreateService)
		services.GET("/:id", h.GetService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)

		admin.GET("/business-info", h.GetBusinessInfo)
		admin.PUT("/business-info", h.UpdateBusinessInfo)

		admin.POST("/translate", h.Translate)
	}
}

func (s *Server) registerDocumentRoutes(g *gin.RouterGroup, d documentHandlers) {
	g.GET("", d.list)
	g.POST("", d.create)
	g.GET("/next-number", d.nextNumber)
	g.GET("/:id", d.get)
	g.PUT("/:id", d.update)
	g.DELETE("/:id", d.delete)
	g.PATCH("/:id/items/:index", d.updateItem)
	g.PUT("/:id/status", d.setStatus)
	g.GET("/:id/export", d.export)
}

// Start starts the HTTP server and blocks until ctx is cancelled or serving fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
