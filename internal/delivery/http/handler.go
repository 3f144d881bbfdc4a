package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/productscraper/backend/internal/domain"
	"github.com/productscraper/backend/internal/monitoring"
)

const (
	serviceName    = "product-scraper-backend"
	serviceVersion = "2.0.0"
)

// BatchProcessor runs a bounded batch of URLs
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, urls []string) []domain.BatchItemResult
}

// ProductScraper produces a record for a single URL and marketplace
type ProductScraper interface {
	Scrape(ctx context.Context, request *domain.ScrapeRequest) (*domain.ProductRecord, error)
}

// HandlerConfig holds presentation settings for the handlers
type HandlerConfig struct {
	Environment string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier domain.Classifier
	batch      BatchProcessor
	scraper    ProductScraper
	metrics    *monitoring.Metrics
	logger     *zap.Logger

	environment string
	startedAt   time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(
	classifier domain.Classifier,
	batch BatchProcessor,
	scraper ProductScraper,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
	config HandlerConfig,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		classifier:  classifier,
		batch:       batch,
		scraper:     scraper,
		metrics:     metrics,
		logger:      logger,
		environment: config.Environment,
		startedAt:   time.Now(),
	}
}

// Status returns the service banner
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "online",
		"service":     serviceName,
		"version":     serviceVersion,
		"environment": h.environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      h.uptime(),
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    h.uptime(),
		"goVersion": runtime.Version(),
	})
}

// DetectSite classifies a single URL
func (h *Handler) DetectSite(c *gin.Context) {
	var req domain.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		respondError(c, http.StatusBadRequest, "URL é obrigatória")
		return
	}

	classification := h.classifier.Classify(req.URL)
	h.metrics.IncClassification(classification.Marketplace.String(), string(classification.Confidence))

	if !classification.Matched() {
		c.JSON(http.StatusOK, envelope{
			Success: false,
			Data: detectData{
				Site:       classification.Marketplace,
				Confidence: classification.Confidence,
				Message:    "Site não reconhecido",
			},
		})
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: detectData{
			Site:       classification.Marketplace,
			Confidence: classification.Confidence,
			Message:    fmt.Sprintf("Site detectado: %s", classification.Marketplace),
		},
	})
}

// Scrape builds a product record for a URL with an explicit marketplace
func (h *Handler) Scrape(c *gin.Context) {
	var req domain.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Site) == "" {
		respondError(c, http.StatusBadRequest, "URL e site são obrigatórios")
		return
	}

	record, err := h.scraper.Scrape(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			respondError(c, http.StatusBadRequest, "URL e site são obrigatórios")
			return
		}
		h.logger.Error("scrape failed",
			zap.String("site", req.Site),
			zap.String("url", req.URL),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Erro interno no servidor")
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    record,
		Message: fmt.Sprintf("Produto do %s extraído com sucesso!", req.Site),
	})
}

// ScrapeBatch processes up to the configured cap of URLs
func (h *Handler) ScrapeBatch(c *gin.Context) {
	var req domain.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URLs == nil {
		respondError(c, http.StatusBadRequest, "Array de URLs é obrigatório")
		return
	}

	results := h.batch.ProcessBatch(c.Request.Context(), req.URLs)

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    results,
		Message: fmt.Sprintf("Lote processado: %d produtos extraídos", len(results)),
	})
}

// ListSites returns the supported marketplaces
func (h *Handler) ListSites(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    domain.SupportedSites(),
	})
}

// NotFound answers unmatched routes
func (h *Handler) NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Rota não encontrada")
}

func (h *Handler) uptime() float64 {
	return time.Since(h.startedAt).Seconds()
}
