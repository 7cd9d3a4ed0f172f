package catalog

import (
	"database/sql"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"catalog-assistant/internal/common/config"
	"catalog-assistant/internal/common/logger"
)

// NewGatewayFromConfig assembles the gateway. rdb and es may be nil; products
// come from Elasticsearch only when product_search selects it and a client is
// given.
func NewGatewayFromConfig(cfg *config.Config, db *sql.DB, rdb *redis.Client, es *elasticsearch.Client, log logger.Logger) *Gateway {
	store := NewPostgresStore(db)

	var products ProductSource = store
	if cfg.Chat.ProductSearch == config.ProductSearchElasticsearch && es != nil {
		products = NewElasticsearchProductSearch(es, cfg.Database.Elasticsearch.ProductIndex)
	}

	return NewGateway(
		&Config{Timeout: cfg.Chat.RetrievalTimeout()},
		store,
		products,
		NewCache(rdb, cfg.Chat.CacheTTL(), log),
		log,
	)
}
