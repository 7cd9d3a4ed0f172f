package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: catalog
    user: assistant
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "sv-SE", cfg.Chat.Locale)
	assert.Equal(t, "SEK", cfg.Chat.Currency)
	assert.Equal(t, "kr", cfg.Chat.CurrencySymbol)
	assert.True(t, cfg.Chat.SymbolAfter)
	assert.Equal(t, 5, cfg.Chat.ListLimit)
	assert.Equal(t, 10*time.Second, cfg.Chat.RetrievalTimeout())
	assert.Equal(t, ProductSearchPostgres, cfg.Chat.ProductSearch)
	assert.Equal(t, 30*time.Minute, cfg.Chat.SessionIdleTTL())
	assert.Equal(t, "products", cfg.Database.Elasticsearch.ProductIndex)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_EnvOverrideAndExpansion(t *testing.T) {
	t.Setenv("DATABASE_POSTGRES_PASSWORD", "from-env")
	t.Setenv("CATALOG_DB_HOST", "db.internal")

	path := writeConfig(t, `
database:
  postgres:
    host: ${CATALOG_DB_HOST}
    database: catalog
    user: assistant
chat:
  locale: en-US
  currency: USD
  currency_symbol: $
  cache_ttl_seconds: 30
workers:
  answer-catalog-query:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, "from-env", cfg.Database.Postgres.Password)
	assert.Equal(t, "USD", cfg.Chat.Currency)
	assert.False(t, cfg.Chat.SymbolAfter)
	assert.Equal(t, 30*time.Second, cfg.Chat.CacheTTL())

	w := GetWorkerConfig(cfg, "answer-catalog-query")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		cfg := &Config{Database: DatabaseConfig{Postgres: PostgresConfig{Host: "h", Database: "d", User: "u"}}}
		applyDefaults(cfg)
		return cfg
	}

	assert.NoError(t, validateConfig(base()))

	cfg := base()
	cfg.Database.Postgres.Host = ""
	assert.EqualError(t, validateConfig(cfg), "database.postgres.host is required")

	cfg = base()
	cfg.Chat.ProductSearch = ProductSearchElasticsearch
	assert.Error(t, validateConfig(cfg))
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	assert.NoError(t, validateConfig(cfg))

	cfg = base()
	cfg.Chat.ProductSearch = "solr"
	assert.Error(t, validateConfig(cfg))

	cfg = base()
	cfg.Camunda.Enabled = true
	assert.EqualError(t, validateConfig(cfg), "camunda.broker_address is required when camunda is enabled")
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, ":9090", ServerConfig{Port: 9090}.Addr())
}
