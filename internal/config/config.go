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
package config

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Corruption CorruptionConfig `mapstructure:"corruption"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	// DataDir holds one <table>.csv per catalog table.
	DataDir string `mapstructure:"data_dir"`
}

// DatabaseConfig holds database connection configuration. For the sqlite
// dialect DBName is the database file path.
type DatabaseConfig struct {
	Dialect                        string `mapstructure:"dialect"`
	Host                           string `mapstructure:"host"`
	Port                           int    `mapstructure:"port"`
	User                           string `mapstructure:"user"`
	Password                       string `mapstructure:"password"`
	DBName                         string `mapstructure:"name"`
	SSLMode                        string `mapstructure:"sslmode"`
	CloudSQLInstanceConnectionName string `mapstructure:"cloudsql_instance_connection_name"`
	UsePrivateIP                   bool   `mapstructure:"cloudsql_use_private_ip"`
}

// CorruptionConfig describes the corruption chain applied while seeding.
type CorruptionConfig struct {
	// Seed makes runs reproducible. Nil means a random seed per run.
	Seed  *int64       `mapstructure:"seed"`
	Steps []StepConfig `mapstructure:"steps"`
}

// StepConfig configures one corruption step. Only the probability the kind
// uses needs to be set: p_row for drop_rows and null_values, p_cell for
// negative_quantity and outlier_spike.
type StepConfig struct {
	Kind   string   `mapstructure:"kind" yaml:"kind"`
	Name   string   `mapstructure:"name" yaml:"name"`
	PApply float64  `mapstructure:"p_apply" yaml:"p_apply"`
	PRow   *float64 `mapstructure:"p_row" yaml:"p_row,omitempty"`
	PCell  *float64 `mapstructure:"p_cell" yaml:"p_cell,omitempty"`
}

// GeneratorConfig drives the synthetic demand series.
type GeneratorConfig struct {
	Years int          `mapstructure:"years"`
	Seed  int64        `mapstructure:"seed"`
	Parts []PartDemand `mapstructure:"parts"`
}

// PartDemand is the demand profile of one part: the chance of any demand
// on a day and the mean batch size when there is.
type PartDemand struct {
	Code        string  `mapstructure:"code"`
	Probability float64 `mapstructure:"probability"`
	MeanSize    float64 `mapstructure:"mean_size"`
}

var globalConfig *Config

// GetConfig returns a default configuration. Values are overlaid from the
// config file, environment and flags by Load.
func GetConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dialect: "sqlite",
			Host:    "localhost",
			DBName:  "data/supply_chain.db",
			SSLMode: "disable",
		},
		DataDir: "data/ai_generated",
		Generator: GeneratorConfig{
			Years: 3,
			Seed:  42,
		},
	}
}

// DefaultSteps is the chain used when the configuration lists no steps.
func DefaultSteps() []StepConfig {
	p := func(v float64) *float64 { return &v }
	return []StepConfig{
		{Kind: "drop_rows", Name: "drop_rows", PApply: 0.5, PRow: p(0.02)},
		{Kind: "negative_quantity", Name: "negative_quantity", PApply: 0.5, PCell: p(0.01)},
		{Kind: "outlier_spike", Name: "outlier_spike", PApply: 0.5, PCell: p(0.01)},
		{Kind: "null_values", Name: "null_values", PApply: 0.5, PRow: p(0.01)},
	}
}

// DefaultParts are the demand profiles of the sample fuel pumps.
func DefaultParts() []PartDemand {
	return []PartDemand{
		{Code: "ENG-FUEL-PUMP-001", Probability: 0.15, MeanSize: 4.0}, // frequent, small batches
		{Code: "ENG-FUEL-PUMP-002", Probability: 0.03, MeanSize: 2.0}, // occasional, small batches
		{Code: "ENG-FUEL-PUMP-003", Probability: 0.001, MeanSize: 1.0}, // extremely rare
	}
}

// SetConfig sets the global configuration.
func SetConfig(cfg *Config) {
	globalConfig = cfg
}

// Current returns the configuration set by SetConfig, or nil.
func Current() *Config {
	return globalConfig
}
