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

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INVENTORY_DATABASE_PASSWORD.
const EnvPrefix = "INVENTORY"

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing default
// ".env" is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if path == ".env" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from defaults, the optional config file,
// INVENTORY_* environment variables and any flags already bound to v.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("corruption.seed"); err != nil {
		return nil, fmt.Errorf("bind corruption.seed: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if len(cfg.Corruption.Steps) == 0 {
		cfg.Corruption.Steps = DefaultSteps()
	}
	if len(cfg.Generator.Parts) == 0 {
		cfg.Generator.Parts = DefaultParts()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := GetConfig()
	v.SetDefault("database.dialect", def.Database.Dialect)
	v.SetDefault("database.host", def.Database.Host)
	v.SetDefault("database.port", def.Database.Port)
	v.SetDefault("database.user", def.Database.User)
	v.SetDefault("database.password", def.Database.Password)
	v.SetDefault("database.name", def.Database.DBName)
	v.SetDefault("database.sslmode", def.Database.SSLMode)
	v.SetDefault("database.cloudsql_instance_connection_name", def.Database.CloudSQLInstanceConnectionName)
	v.SetDefault("database.cloudsql_use_private_ip", def.Database.UsePrivateIP)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("generator.years", def.Generator.Years)
	v.SetDefault("generator.seed", def.Generator.Seed)
}

// Validate checks the values that do not depend on other packages. Step
// kinds and probabilities are checked when the chain is built.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Dialect) == "" {
		return fmt.Errorf("database dialect is required")
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database port %d out of range", c.Database.Port)
	}
	if c.Generator.Years <= 0 {
		return fmt.Errorf("generator years must be positive, got %d", c.Generator.Years)
	}
	for _, p := range c.Generator.Parts {
		if p.Code == "" {
			return fmt.Errorf("generator part without code")
		}
		if p.Probability < 0 || p.Probability > 1 {
			return fmt.Errorf("generator part %s: probability %v outside [0,1]", p.Code, p.Probability)
		}
		if p.MeanSize < 0 {
			return fmt.Errorf("generator part %s: negative mean size", p.Code)
		}
	}
	for i, s := range c.Corruption.Steps {
		if strings.TrimSpace(s.Kind) == "" {
			return fmt.Errorf("corruption step #%d has no kind", i+1)
		}
	}
	return nil
}

// SeedValue returns the configured seed and whether one was set.
func (c CorruptionConfig) SeedValue() (uint64, bool) {
	if c.Seed == nil {
		return 0, false
	}
	return uint64(*c.Seed), true
}
