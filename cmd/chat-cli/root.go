package main

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/common/config"
	"catalog-assistant/internal/common/database"
	"catalog-assistant/internal/common/logger"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "chat-cli",
	Short: "Ask the catalog assistant questions from a terminal",
	Long: `chat-cli runs the catalog assistant against the configured store without the
HTTP API. Use "chat" for an interactive session and "export" to dump a table
to a spreadsheet.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults to configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored prompts")
}

// deps holds the clients a command opened; close releases them.
type deps struct {
	cfg     *config.Config
	log     logger.Logger
	pg      *database.PostgresClient
	cache   *database.RedisClient
	gateway *catalog.Gateway
}

func openDeps(ctx context.Context) (*deps, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewStructured(logLevel, "console", "stderr")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, err
	}

	d := &deps{cfg: cfg, log: log, pg: pg}

	var rdb *redis.Client
	if cache := database.NewRedis(cfg.Database.Redis); cache != nil {
		if err := cache.Ping(ctx); err != nil {
			log.Warn("redis unavailable, retrieval cache disabled", map[string]interface{}{"error": err.Error()})
			cache.Close()
		} else {
			d.cache = cache
			rdb = cache.Client
		}
	}

	var es *elasticsearch.Client
	if cfg.Chat.ProductSearch == config.ProductSearchElasticsearch {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			d.close()
			return nil, err
		}
		es = esClient.Client
	}

	d.gateway = catalog.NewGatewayFromConfig(cfg, pg.DB, rdb, es, log)
	return d, nil
}

func (d *deps) close() {
	d.cache.Close()
	d.pg.Close()
}
