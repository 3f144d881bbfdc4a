package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/productscraper/backend/internal/domain"
)

// ScrapeServiceConfig holds configuration for the scrape service
type ScrapeServiceConfig struct {
	Delay time.Duration
}

// ScrapeService produces a product record for a single URL with a known marketplace
type ScrapeService struct {
	builder domain.ProductBuilder
	delayer domain.Delayer
	logger  *zap.Logger
	delay   time.Duration
}

// NewScrapeService creates a new scrape service with dependencies
func NewScrapeService(
	builder domain.ProductBuilder,
	delayer domain.Delayer,
	logger *zap.Logger,
	config ScrapeServiceConfig,
) *ScrapeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScrapeService{
		builder: builder,
		delayer: delayer,
		logger:  logger,
		delay:   config.Delay,
	}
}

// Scrape builds the record for request.URL using request.Site as marketplace.
// Flow: validate -> simulated processing delay -> build
func (s *ScrapeService) Scrape(ctx context.Context, request *domain.ScrapeRequest) (*domain.ProductRecord, error) {
	if request == nil || strings.TrimSpace(request.URL) == "" || strings.TrimSpace(request.Site) == "" {
		return nil, domain.ErrInvalidRequest
	}

	s.logger.Info("scraping request",
		zap.String("site", request.Site),
		zap.String("url", request.URL))

	if s.delayer != nil && s.delay > 0 {
		if err := s.delayer.Wait(ctx, s.delay); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrItemCancelled, err)
		}
	}

	record, err := s.builder.Build(ctx, domain.Marketplace(request.Site), request.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBuildFailed, err)
	}

	return &record, nil
}
