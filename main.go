package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/controllers"
	"github.com/Govind-619/StoreSphere/routes"
	"github.com/Govind-619/StoreSphere/scripts"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "storesphere",
	Short:         "StoreSphere storefront and admin API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		utils.LogInfo("Migrations applied")
		return nil
	},
}

var seedOpts scripts.SeedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with a demo catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		summary, err := scripts.Seed(config.DB, seedOpts)
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		utils.LogInfo("Seeded %d categories, %d subcategories, %d products, %d pincodes",
			summary.Categories, summary.Subcategories, summary.Products, summary.PinCodes)
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs <file>",
	Short: "Summarise a JSON log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		stats, err := scripts.AnalyzeLogs(f)
		if err != nil {
			return err
		}
		scripts.PrintReport(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	seedCmd.Flags().Uint64Var(&seedOpts.Seed, "seed", 42, "random seed, fixed seeds give repeatable data")
	seedCmd.Flags().IntVar(&seedOpts.Categories, "categories", 4, "number of categories")
	seedCmd.Flags().IntVar(&seedOpts.SubcategoriesPer, "subcategories", 3, "subcategories per category")
	seedCmd.Flags().IntVar(&seedOpts.ProductsPerSubcat, "products", 4, "products per subcategory")
	seedCmd.Flags().IntVar(&seedOpts.PinCodes, "pincodes", 20, "serviceable pincodes")
	seedCmd.Flags().BoolVar(&seedOpts.SkipWhenPopulated, "skip-populated", true, "do nothing when products exist")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, logsCmd)
}

// bootstrap loads config, starts logging and opens the migrated database
func bootstrap() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := utils.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, err
	}
	if err := config.Migrate(config.DB); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer utils.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controllers.CreateSampleAdmin(); err != nil {
		return fmt.Errorf("failed to create sample admin: %w", err)
	}
	if err := utils.InitCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, time.Duration(cfg.CacheTTLSeconds)*time.Second); err != nil {
		return err
	}
	if cfg.StorageDriver == "s3" {
		s3, err := utils.NewS3Storage(ctx, utils.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return err
		}
		utils.Media = s3
	} else {
		utils.Media = utils.NewLocalStorage(cfg.UploadDir, "/uploads")
	}
	config.InitGoogleOAuth(cfg)
	if n, err := utils.PurgeExpiredTokens(); err != nil {
		utils.LogWarn("Failed to purge revoked tokens: %v", err)
	} else if n > 0 {
		utils.LogInfo("Purged %d expired revoked tokens", n)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
