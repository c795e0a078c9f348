/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	_ "github.com/benaspinall1/aircraft-inventory-optimization/internal/database/mysql"
	_ "github.com/benaspinall1/aircraft-inventory-optimization/internal/database/postgres"
	_ "github.com/benaspinall1/aircraft-inventory-optimization/internal/database/sqlite"
	_ "github.com/benaspinall1/aircraft-inventory-optimization/internal/database/sqlserver"
)

var (
	cfgFile string
	envFile string
	verbose bool
	dryRun  bool
	seed    int64

	// Database connection flags
	dialect                        string
	host                           string
	port                           int
	username                       string
	password                       string
	dbName                         string
	cloudSQLInstanceConnectionName string
	cloudSQLUsePrivateIP           bool

	v      = viper.New()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Seed aircraft spare-parts supply chain tables with realistic dirty data",
	Long: `inventory loads clean supply chain tables (parts, locations, lead times,
demand, stock levels and orders) into a database after passing the ones that
allow it through a reproducible corruption chain: dropped rows, negative
quantities, statistical outliers and null placeholders. Every applied step is
recorded in the corruption_audit table.`,
	SilenceUsage:      true,
	PersistentPreRunE: initFlagsAndConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// initFlagsAndConfig builds the logger and the configuration from the env
// file, config file, INVENTORY_* variables and flags, in increasing priority.
func initFlagsAndConfig(cmd *cobra.Command, args []string) error {
	l, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l
	zap.ReplaceGlobals(logger)

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if cmd != nil && cmd.Flags().Changed("seed") {
		s := seed
		cfg.Corruption.Seed = &s
	}
	config.SetConfig(cfg)

	logger.Debug("Configuration loaded",
		zap.String("dialect", cfg.Database.Dialect),
		zap.String("database", cfg.Database.DBName),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("corruption_steps", len(cfg.Corruption.Steps)))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func currentConfig() (*config.Config, error) {
	cfg := config.Current()
	if cfg == nil {
		return nil, fmt.Errorf("configuration is not initialized")
	}
	return cfg, nil
}

func validateDialect(dialect string) error {
	supportedDialects := database.Dialects()
	slices.Sort(supportedDialects)
	if !slices.Contains(supportedDialects, dialect) {
		return fmt.Errorf("unsupported dialect: %s (only %s are supported)", dialect, strings.Join(supportedDialects, ", "))
	}
	return nil
}

func setupDatabase(ctx context.Context) (*database.DB, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}
	if err := validateDialect(cfg.Database.Dialect); err != nil {
		return nil, err
	}
	db, err := database.New(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// buildChain turns the configured steps into a chain. The seed is random
// unless configured.
func buildChain(cfg *config.Config) (*corrupt.Chain, error) {
	steps, err := corrupt.BuildSteps(cfg.Corruption.Steps)
	if err != nil {
		return nil, err
	}
	opts := []corrupt.Option{corrupt.WithLogger(logger)}
	if s, ok := cfg.Corruption.SeedValue(); ok {
		opts = append(opts, corrupt.WithSeed(s))
	}
	return corrupt.NewChain(corrupt.SupplyRegistry(), steps, opts...)
}

// writeReport writes v as YAML when path ends in .yaml or .yml, JSON
// otherwise.
func writeReport(path string, v any) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before reading INVENTORY_* variables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Enable dry-run mode (no database modifications)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for the corruption chain (random when unset)")

	// Database connection flags
	rootCmd.PersistentFlags().StringVar(&dialect, "dialect", "", "Database dialect (sqlite, postgres, mysql, sqlserver, cloudsqlpostgres, cloudsqlmysql, cloudsqlsqlserver)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "Database host")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "Database port")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "Database username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Database password")
	rootCmd.PersistentFlags().StringVar(&dbName, "database", "", "Database name (file path for sqlite)")
	rootCmd.PersistentFlags().StringVar(&cloudSQLInstanceConnectionName, "cloudsql-instance-connection-name", "", "Cloud SQL instance connection name (for Cloud SQL dialects)")
	rootCmd.PersistentFlags().BoolVar(&cloudSQLUsePrivateIP, "cloudsql-use-private-ip", false, "Use private IP for Cloud SQL connection (Cloud SQL)")

	bindFlag("database.dialect", "dialect")
	bindFlag("database.host", "host")
	bindFlag("database.port", "port")
	bindFlag("database.user", "username")
	bindFlag("database.password", "password")
	bindFlag("database.name", "database")
	bindFlag("database.cloudsql_instance_connection_name", "cloudsql-instance-connection-name")
	bindFlag("database.cloudsql_use_private_ip", "cloudsql-use-private-ip")

	// Add subcommands
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(corruptCmd)
	rootCmd.AddCommand(generateDemandCmd)
	rootCmd.AddCommand(showTableCmd)
	rootCmd.AddCommand(dropTablesCmd)
	rootCmd.AddCommand(applySQLCmd)
	rootCmd.AddCommand(listTablesCmd)
}
