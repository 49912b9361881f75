package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerworks/analyst-api/internal/adapters/driven/storage/sqlite"
	"github.com/ledgerworks/analyst-api/internal/adapters/driving/httpapi"
	"github.com/ledgerworks/analyst-api/internal/config"
	"github.com/ledgerworks/analyst-api/internal/core/services"
	"github.com/ledgerworks/analyst-api/internal/extractor/pdfx"
	"github.com/ledgerworks/analyst-api/internal/logger"
)

var (
	addrFlag    string
	dataDirFlag string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "database directory (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()
	logger.Info("database: %s", store.Path())

	server := buildServer(store, cfg)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		cmd.Printf("analyst-api listening on %s\n", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
	}
	return nil
}

// buildServer assembles the service graph on top of a store.
func buildServer(store *sqlite.Store, cfg config.Config) *httpapi.Server {
	companyStore := store.CompanyStore()
	userStore := store.UserStore()
	accessStore := store.AccessStore()
	docStore := store.DocumentStore()

	access := services.NewAccessService(userStore, accessStore, companyStore)
	auth := services.NewAuthService(userStore)
	companies := services.NewCompanyService(companyStore, userStore, accessStore, docStore, access)
	ingestion := services.NewIngestionService(access, pdfx.New(), docStore,
		services.WithChunkSize(cfg.ChunkSize))
	queries := services.NewQueryService(access, docStore, companyStore,
		services.WithSearchLimit(cfg.SearchLimit),
		services.WithFallbackLimit(cfg.FallbackLimit))

	return httpapi.New(httpapi.Deps{
		Auth:      auth,
		Access:    access,
		Companies: companies,
		Ingestion: ingestion,
		Queries:   queries,
	},
		httpapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		httpapi.WithMaxUploadMB(cfg.MaxUploadMB),
	)
}
