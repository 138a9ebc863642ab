package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/adapters/catalog/oracle"
	"github.com/oraviz-inc/oraviz-engine/pkg/config"
	"github.com/oraviz-inc/oraviz-engine/pkg/mcp"
	"github.com/oraviz-inc/oraviz-engine/pkg/mcp/tools"
	"github.com/oraviz-inc/oraviz-engine/pkg/schema"
	"github.com/oraviz-inc/oraviz-engine/pkg/sqlbuilder"
	"github.com/oraviz-inc/oraviz-engine/pkg/viz"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("oracle_host", cfg.Oracle.Host),
		zap.Int("oracle_port", cfg.Oracle.Port),
		zap.String("oracle_service", cfg.Oracle.Service))

	if cfg.PatternsFile != "" {
		if err := schema.LoadPatternOverrides(cfg.PatternsFile); err != nil {
			logger.Fatal("failed to load pattern overrides", zap.Error(err))
		}
		logger.Info("loaded column-role pattern overrides", zap.String("path", cfg.PatternsFile))
	}

	reader, err := oracle.NewReader(&oracle.Config{
		Host:     cfg.Oracle.Host,
		Port:     cfg.Oracle.Port,
		User:     cfg.Oracle.User,
		Password: cfg.Oracle.Password,
		Service:  cfg.Oracle.Service,
		Owners:   cfg.Oracle.Owners,
	}, logger)
	if err != nil {
		logger.Fatal("failed to open catalog reader", zap.Error(err))
	}
	defer reader.Close()

	discovery := schema.NewDiscovery(reader, logger)
	builder := sqlbuilder.NewBuilder(logger)
	compiler := viz.NewCompiler(viz.Options{
		Responsive: cfg.Chart.Responsive,
		Width:      cfg.Chart.Width,
		Height:     cfg.Chart.Height,
	}, logger)

	mcpServer := mcp.NewServer("oraviz-engine", cfg.Version, logger)
	mcpServer.RegisterToolGroups(mcp.ToolDeps{
		Schema: &tools.SchemaToolDeps{
			Discovery: discovery,
			Logger:    logger,
		},
		SQL: &tools.SQLToolDeps{
			Builder:   builder,
			Discovery: discovery,
			Logger:    logger,
		},
		Chart: &tools.ChartToolDeps{
			Compiler: compiler,
			Logger:   logger,
		},
	})

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpServer.NewStreamableHTTPServer())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"` + cfg.Version + `"}`))
	})

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting oraviz-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
