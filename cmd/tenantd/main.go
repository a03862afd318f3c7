package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tenantd/internal/app"
	"github.com/dropDatabas3/tenantd/internal/config"
	httpx "github.com/dropDatabas3/tenantd/internal/http"
	"github.com/dropDatabas3/tenantd/internal/metrics"
	"github.com/dropDatabas3/tenantd/internal/observability/logger"
)

var version = "dev" // inyectado con -ldflags en el build

func main() {
	// .env es opcional: en prod las vars vienen del entorno.
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:          "tenantd",
		Short:        "Servicio multi-tenant con resolución dinámica de capabilities",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", envOr("TENANTD_CONFIG", "tenantd.yaml"), "ruta del archivo de configuración")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath)
		},
	}

	check := &cobra.Command{
		Use:   "check-config",
		Short: "Valida la configuración y muestra la tabla de tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cfgPath)
		},
	}

	root.AddCommand(serve, check)
	// Sin subcomando: serve.
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "tenantd",
		Version:     version,
	})
	defer logger.Sync()

	if err := metrics.Register(nil); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	readTO, _ := time.ParseDuration(cfg.Server.ReadTimeout)
	writeTO, _ := time.ParseDuration(cfg.Server.WriteTimeout)
	srv := httpx.NewServer(httpx.ServerConfig{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  readTO,
		WriteTimeout: writeTO,
	}, a.Handler)

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.L().Info("shutting down", logger.String("signal", sig.String()))
	}

	shutdownTO, _ := time.ParseDuration(cfg.Server.ShutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTO)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.L().Info("bye")
	return nil
}

func runCheck(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config inválida: %w", err)
	}

	fmt.Printf("config OK: %d tenants, empty_key=%s, header=%s\n",
		len(cfg.Tenants), cfg.Resolver.EmptyKey, cfg.Resolver.TenantHeader)
	for i, t := range cfg.Tenants {
		fmt.Printf("  %2d. %-20s directory=%-7s mailer=%s\n",
			i+1, t.Key, t.Directory.Driver, t.Mailer.Driver)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
