// Package main provides the HelixDB CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/helixdb/helixdb/pkg/bm25"
	"github.com/helixdb/helixdb/pkg/config"
	"github.com/helixdb/helixdb/pkg/hnsw"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/logging"
	"github.com/helixdb/helixdb/pkg/server"
	"github.com/helixdb/helixdb/pkg/storage"
	"github.com/helixdb/helixdb/pkg/traversal"
	"github.com/helixdb/helixdb/pkg/txn"
	"github.com/helixdb/helixdb/pkg/worker"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "helixdb",
		Short: "HelixDB - embedded graph+vector database",
		Long: `HelixDB is an embedded graph+vector database whose query language
compiles into composable traversal pipelines over a transactional
key-value backend.

This binary hosts the core engine: storage, the traversal algebra, the
label/property/BM25/HNSW indices, the worker pool, and the HTTP
ingress that dispatches compiled queries by name. Queries themselves
are produced by a separate compiler and registered against the worker
pool's Handler interface; this binary does not parse or compile HQL.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("helixdb v%s\n", version)
		},
	})

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HelixDB engine and HTTP ingress",
		RunE:  runServe,
	}
	serveCmd.Flags().String("config", "", "Path to a YAML config file (overlays environment-derived defaults)")
	rootCmd.AddCommand(serveCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new HelixDB data directory",
		RunE:  runInit,
	}
	initCmd.Flags().String("data-dir", "", "Data directory (defaults to HELIX_DATA_DIR or ~/.helix/user)")
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.LoadFromEnv()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.Configure(cfg.Logging.Level, cfg.Logging.Format)

	logging.Infof("starting helixdb v%s", version)
	logging.Infof("%s", cfg.String())

	if err := os.MkdirAll(cfg.Database.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	env, err := kv.Open(kv.Options{Path: cfg.Database.DataDir})
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer env.Close()

	entityCache, err := storage.NewEntityCache(storage.DefaultCacheConfig())
	if err != nil {
		return fmt.Errorf("creating entity cache: %w", err)
	}
	defer entityCache.Close()

	store := storage.New().WithCache(entityCache)
	bmIndex := bm25.NewWithConfig(store, bm25.Config{K1: cfg.BM25.K1, B: cfg.BM25.B})
	store = store.WithFulltext(bmIndex)
	hnswIndex := hnsw.New(store, hnsw.Config{
		M:              cfg.HNSW.M,
		MMax0:          cfg.HNSW.MMax0,
		EfConstruction: cfg.HNSW.EfConstruction,
		EfSearch:       cfg.HNSW.EfSearch,
	})
	engine := &traversal.Engine{Store: store, BM25: bmIndex, HNSW: hnswIndex}
	graph := txn.NewGraph(env)

	pool := worker.New(graph, engine, cfg.Worker)
	pool.Start()
	defer pool.Stop()

	srv := server.New(pool, store, graph, &server.Config{
		Address:            "0.0.0.0",
		Port:               cfg.Server.Port,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        120 * time.Second,
		MaxRequestSize:     10 << 20,
		EnableCORS:         true,
		CORSOrigins:        []string{"*"},
		GraphvisSampleSize: 200,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	logging.Infof("listening on %s", srv.Addr())
	logging.Infof("press ctrl+c to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logging.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	logging.Infof("stopped")
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	envCfg := config.LoadFromEnv()
	logging.Configure(envCfg.Logging.Level, envCfg.Logging.Format)

	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = envCfg.Database.DataDir
	}

	logging.Infof("initializing helixdb data directory at %s", dataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dataDir, err)
	}

	env, err := kv.Open(kv.Options{Path: dataDir})
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer env.Close()

	logging.Infof("done")
	logging.Infof("start the server with: helixdb serve")
	logging.Infof("(set HELIX_DATA_DIR=%s if this isn't the default)", filepath.Clean(dataDir))
	return nil
}
