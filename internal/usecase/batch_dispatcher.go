package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/productscraper/backend/internal/domain"
	"github.com/productscraper/backend/internal/monitoring"
)

// DefaultMaxBatchItems is the number of URLs processed per batch when no cap is configured
const DefaultMaxBatchItems = 5

// BatchDispatcherConfig holds configuration for the batch dispatcher
type BatchDispatcherConfig struct {
	MaxItems  int
	ItemDelay time.Duration
}

// BatchDispatcher classifies and builds records for a bounded list of URLs
type BatchDispatcher struct {
	classifier domain.Classifier
	builder    domain.ProductBuilder
	delayer    domain.Delayer
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	maxItems   int
	itemDelay  time.Duration
}

// NewBatchDispatcher creates a new batch dispatcher with dependencies
func NewBatchDispatcher(
	classifier domain.Classifier,
	builder domain.ProductBuilder,
	delayer domain.Delayer,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
	config BatchDispatcherConfig,
) *BatchDispatcher {
	maxItems := config.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxBatchItems
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BatchDispatcher{
		classifier: classifier,
		builder:    builder,
		delayer:    delayer,
		metrics:    metrics,
		logger:     logger,
		maxItems:   maxItems,
		itemDelay:  config.ItemDelay,
	}
}

// MaxItems returns the per-batch cap
func (d *BatchDispatcher) MaxItems() int {
	return d.maxItems
}

// ProcessBatch handles the first MaxItems URLs in input order.
// Every processed URL yields exactly one result; a failing item never aborts the batch.
func (d *BatchDispatcher) ProcessBatch(ctx context.Context, urls []string) []domain.BatchItemResult {
	n := len(urls)
	if n > d.maxItems {
		n = d.maxItems
	}
	d.metrics.ObserveBatchSize(len(urls))
	d.logger.Info("processing batch",
		zap.Int("received", len(urls)),
		zap.Int("processing", n))

	results := make([]domain.BatchItemResult, 0, n)
	for i := 0; i < n; i++ {
		result := d.processItem(ctx, urls[i])
		d.metrics.IncBatchItem(result.Marketplace.String(), result.Success)
		if !result.Success {
			d.logger.Warn("batch item failed",
				zap.Int("index", i),
				zap.String("url", result.URL),
				zap.String("error", result.Error))
		}
		results = append(results, result)
	}

	return results
}

// processItem runs one URL through delay, classification and build.
// Panics from the builder are converted into a failed result.
func (d *BatchDispatcher) processItem(ctx context.Context, url string) (result domain.BatchItemResult) {
	// blank entries (including JSON null) fail without a delay or a build
	if strings.TrimSpace(url) == "" {
		return domain.BatchItemResult{
			URL:         url,
			Marketplace: domain.MarketplaceGeneric,
			Error:       fmt.Errorf("%w: url is empty", domain.ErrInvalidRequest).Error(),
		}
	}

	classification := d.classifier.Classify(url)
	marketplace := classification.Marketplace
	if !classification.Matched() {
		marketplace = domain.MarketplaceGeneric
	}
	d.metrics.IncClassification(classification.Marketplace.String(), string(classification.Confidence))

	result = domain.BatchItemResult{
		URL:         url,
		Marketplace: marketplace,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Data = nil
			result.Error = fmt.Sprintf("%v: %v", domain.ErrBuildFailed, r)
		}
	}()

	if d.delayer != nil && d.itemDelay > 0 {
		if err := d.delayer.Wait(ctx, d.itemDelay); err != nil {
			result.Error = fmt.Errorf("%w: %v", domain.ErrItemCancelled, err).Error()
			return result
		}
	}

	record, err := d.builder.Build(ctx, marketplace, url)
	if err != nil {
		result.Error = fmt.Errorf("%w: %v", domain.ErrBuildFailed, err).Error()
		return result
	}

	result.Success = true
	result.Data = &record
	return result
}
