/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string            `yaml:"cors_allowed_origins"`
	JWTSecret          string              `yaml:"jwt_secret"`
	Issuer             string              `yaml:"issuer"`
	Audience           string              `yaml:"audience"`
	RequiredScopes     map[string][]string `yaml:"required_scopes"`
}

type DataSourceConfig struct {
	Type         string `yaml:"type"`
	Hostname     string `yaml:"hostname"`
	Port         int    `yaml:"port"`
	Name         string `yaml:"name"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	SSLMode      string `yaml:"sslmode"`
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	InitSchema   bool   `yaml:"init_schema"`
}

type InterestConfig struct {
	FootprintWindowSeconds int64 `yaml:"footprint_window_seconds"`
	StoreRetries           int   `yaml:"store_retries"`
}

type AutoResponderConfig struct {
	PollIntervalSeconds   int `yaml:"poll_interval_seconds"`
	BatchSize             int `yaml:"batch_size"`
	MaxDispatchAttempts   int `yaml:"max_dispatch_attempts"`
	BackoffInitialSeconds int `yaml:"backoff_initial_seconds"`
	BackoffMaxSeconds     int `yaml:"backoff_max_seconds"`
	QueueSize             int `yaml:"queue_size"`
	RuleCacheTTLSeconds   int `yaml:"rule_cache_ttl_seconds"`
	ClaimLeaseSeconds     int `yaml:"claim_lease_seconds"`
}

type MessagingConfig struct {
	BaseURL        string `yaml:"base_url"`
	ApiKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type Config struct {
	Addr          AddrConfig          `yaml:"addr"`
	Log           LogConfig           `yaml:"log"`
	Auth          AuthConfig          `yaml:"auth"`
	DataSource    DataSourceConfig    `yaml:"datasource"`
	Interest      InterestConfig      `yaml:"interest"`
	AutoResponder AutoResponderConfig `yaml:"auto_responder"`
	Messaging     MessagingConfig     `yaml:"messaging"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

// FootprintWindow returns the coalescing window for footprints, 24 hours unless configured.
func (c InterestConfig) FootprintWindow() time.Duration {
	if c.FootprintWindowSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.FootprintWindowSeconds) * time.Second
}

// Retries returns the bounded retry count for idempotent store writes.
func (c InterestConfig) Retries() int {
	if c.StoreRetries <= 0 {
		return 3
	}
	return c.StoreRetries
}

func (c AutoResponderConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c AutoResponderConfig) Batch() int {
	if c.BatchSize <= 0 {
		return 50
	}
	return c.BatchSize
}

func (c AutoResponderConfig) MaxAttempts() int {
	if c.MaxDispatchAttempts <= 0 {
		return 5
	}
	return c.MaxDispatchAttempts
}

func (c AutoResponderConfig) BackoffInitial() time.Duration {
	if c.BackoffInitialSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.BackoffInitialSeconds) * time.Second
}

func (c AutoResponderConfig) BackoffMax() time.Duration {
	if c.BackoffMaxSeconds <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.BackoffMaxSeconds) * time.Second
}

func (c AutoResponderConfig) Queue() int {
	if c.QueueSize <= 0 {
		return 1000
	}
	return c.QueueSize
}

func (c AutoResponderConfig) RuleCacheTTL() time.Duration {
	if c.RuleCacheTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RuleCacheTTLSeconds) * time.Second
}

// ClaimLease is how long a claimed job stays invisible to later polls.
func (c AutoResponderConfig) ClaimLease() time.Duration {
	if c.ClaimLeaseSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.ClaimLeaseSeconds) * time.Second
}

func (c MessagingConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
