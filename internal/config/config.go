// Copyright 2025 The wp-kleenexd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the service configuration from an optional config
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the service.
type Config struct {
	// Namespace is where WordpressSite objects live.
	Namespace string `mapstructure:"NAMESPACE"`

	// WebsiteHost is the shared vhost serving all throwaway sites.
	WebsiteHost string `mapstructure:"WEBSITE_HOST"`

	// ListenAddr and Port form the HTTP bind address.
	ListenAddr string `mapstructure:"LISTEN_ADDR"`
	Port       int    `mapstructure:"PORT"`

	// JWTSecret verifies the bearer tokens minted by the login proxy.
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// AdminGroup is the group granting the admin role.
	AdminGroup string `mapstructure:"ADMIN_GROUP"`

	// CleanupAPIKey, when set, must accompany cleanup trigger requests.
	CleanupAPIKey string `mapstructure:"CLEANUP_API_KEY"`

	// CleanupInterval is the period of the background cleanup scheduler.
	CleanupInterval time.Duration `mapstructure:"CLEANUP_INTERVAL"`
}

// Load reads the configuration from config.yml (if present) and the
// environment, applies defaults and validates the result.
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars alone are fine.
	_ = viper.ReadInConfig()

	viper.SetDefault("NAMESPACE", "wordpress-kleenex")
	viper.SetDefault("WEBSITE_HOST", "wp-kleenex.epfl.ch")
	viper.SetDefault("LISTEN_ADDR", "0.0.0.0")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("ADMIN_GROUP", "wp-kleenex-admins")
	viper.SetDefault("CLEANUP_API_KEY", "")
	viper.SetDefault("CLEANUP_INTERVAL", "15m")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings that have no sensible default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.Namespace == "" {
		return errors.New("NAMESPACE must not be empty")
	}
	if c.WebsiteHost == "" {
		return errors.New("WEBSITE_HOST must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.CleanupInterval <= 0 {
		return errors.New("CLEANUP_INTERVAL must be positive")
	}
	return nil
}
