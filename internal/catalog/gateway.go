// Package catalog is the data retrieval gateway between the chat engine and
// the structured catalog store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "catalog-assistant/internal/common/errors"
	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/metrics"
	"catalog-assistant/internal/lexicon"
	"catalog-assistant/internal/models"
)

var (
	ErrRetrievalFailed = errors.New("RETRIEVAL_FAILED")
	ErrUnknownTable    = errors.New("UNKNOWN_TABLE")
)

const (
	opFetchTable        = "fetch_table"
	opFindProductByName = "find_product_by_name"
)

// TableSource fetches generic rows of a catalog table.
type TableSource interface {
	FetchTable(ctx context.Context, table, searchTerm string) ([]models.GenericRecord, error)
}

// ProductSource resolves a name phrase to products with related records.
type ProductSource interface {
	FindProductByName(ctx context.Context, phrase string) ([]models.Product, error)
}

type Config struct {
	Timeout time.Duration
}

// Gateway applies the retrieval timeout, the optional cache and error
// normalization on top of the underlying sources. Every failure it returns
// carries ErrRetrievalFailed.
type Gateway struct {
	config   *Config
	tables   TableSource
	products ProductSource
	cache    *Cache
	logger   logger.Logger
}

func NewGateway(config *Config, tables TableSource, products ProductSource, cache *Cache, log logger.Logger) *Gateway {
	return &Gateway{
		config:   config,
		tables:   tables,
		products: products,
		cache:    cache,
		logger:   log.With(map[string]interface{}{"component": "catalog-gateway"}),
	}
}

// FetchTable returns the rows of a known catalog table. A non-empty searchTerm
// keeps rows whose name or description contains it, case-insensitively.
func (g *Gateway) FetchTable(ctx context.Context, table, searchTerm string) ([]models.GenericRecord, error) {
	if !lexicon.IsKnownTable(table) {
		err := apperrors.NewUnknownTableError(table, fmt.Errorf("%w: %w", ErrRetrievalFailed, ErrUnknownTable))
		g.recordFailure(opFetchTable, err, map[string]interface{}{"table": table})
		return nil, err
	}
	searchTerm = strings.TrimSpace(searchTerm)

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	key := tableCacheKey(table, searchTerm)
	if cached, ok := g.cache.getRecords(ctx, key); ok {
		return cached, nil
	}

	records, err := g.tables.FetchTable(ctx, table, searchTerm)
	if err != nil {
		err = g.normalize(ctx, opFetchTable, err)
		g.recordFailure(opFetchTable, err, map[string]interface{}{"table": table})
		return nil, err
	}

	g.cache.setRecords(ctx, key, records)
	g.logger.Debug("table fetched", map[string]interface{}{
		"table":   table,
		"records": len(records),
	})
	return records, nil
}

// FindProductByName returns the products whose name contains phrase. No
// match is an empty slice, not an error.
func (g *Gateway) FindProductByName(ctx context.Context, phrase string) ([]models.Product, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	key := productCacheKey(phrase)
	var cached []models.Product
	if g.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	products, err := g.products.FindProductByName(ctx, phrase)
	if err != nil {
		err = g.normalize(ctx, opFindProductByName, err)
		g.recordFailure(opFindProductByName, err, map[string]interface{}{"phrase": phrase})
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}

	g.cache.set(ctx, key, products)
	g.logger.Debug("products resolved", map[string]interface{}{
		"phrase":   phrase,
		"products": len(products),
	})
	return products, nil
}

func (g *Gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.config == nil || g.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.config.Timeout)
}

func (g *Gateway) normalize(ctx context.Context, operation string, err error) error {
	wrapped := fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return apperrors.NewRetrievalTimeoutError(operation, wrapped)
	}
	return apperrors.NewRetrievalFailedError(operation, wrapped)
}

func (g *Gateway) recordFailure(operation string, err error, fields map[string]interface{}) {
	code := apperrors.CodeOf(err)
	metrics.ChatRetrievalFailures.WithLabelValues(operation, string(code)).Inc()

	fields["operation"] = operation
	fields["errorCode"] = code
	fields["category"] = apperrors.GetErrorCategory(code)
	g.logger.WithError(err).Error("catalog retrieval failed", fields)
}
