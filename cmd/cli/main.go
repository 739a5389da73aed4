package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smartbasket/basket-service/config"
	"github.com/smartbasket/basket-service/internal/catalog"
	"github.com/smartbasket/basket-service/internal/database"
)

var (
	cfgFile     string
	catalogFile string
	cfg         *config.Config
	logger      *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "basket-service",
	Short: "Basket Service CLI - compare baskets and manage prices",
	Long: `A CLI for the basket comparison service. It compares a basket of reference
items across every active store, imports price sheets and prepares the database.`,
	PersistentPreRunE: persistentPreRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog-file", "", "read the catalog from a JSON fixture instead of the database")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	if cfg == nil {
		return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
	}
	if catalogFile != "" {
		cfg.Catalog.Source = config.CatalogSourceFile
		cfg.Catalog.File = catalogFile
	}
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Logs go to stderr so command output stays machine readable.
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	l := zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = l
	return &l
}

func initDatabase(ctx context.Context) error {
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	if err := database.Connect(ctx, database.Options{
		URL:             dbURL,
		MaxConns:        cfg.Database.MaxConnections,
		MinConns:        cfg.Database.MinConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Msg("Database connected")
	return nil
}

// catalogStore is what the commands need from a catalog backend.
type catalogStore interface {
	catalog.Reader
	catalog.PriceWriter
}

// openCatalog opens the configured catalog. The returned func releases it.
func openCatalog(ctx context.Context) (catalogStore, func(), error) {
	if cfg.Catalog.Source == config.CatalogSourceFile {
		fixture, err := catalog.LoadFixtureFile(cfg.Catalog.File)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug().Str("file", cfg.Catalog.File).Msg("Using file catalog")
		return catalog.NewMemoryFromFixture(fixture), func() {}, nil
	}

	if err := initDatabase(ctx); err != nil {
		return nil, nil, fmt.Errorf("database initialization failed: %w", err)
	}
	return database.NewCatalogRepository(database.Pool()), database.Close, nil
}

// openRedis returns a client when caching is enabled.
func openRedis() *redis.Client {
	if !cfg.Cache.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
