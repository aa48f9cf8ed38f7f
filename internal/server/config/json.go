package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/flagx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "5m" style strings and integer nanoseconds. Only keys present in the file
// override the current values.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	DatabaseType                *string         `json:"database_type"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	DBMaxOpenConns              *int            `json:"db_max_open_conns"`
	DBTimeout                   *timex.Duration `json:"db_timeout"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
	MaxAttributeBatch           *int            `json:"max_attribute_batch"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, into config.
func parseJson(config *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DatabaseType, c.DatabaseType)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.DBTimeout, c.DBTimeout)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	if c.DBMaxOpenConns != nil {
		config.DBMaxOpenConns = *c.DBMaxOpenConns
	}
	if c.MaxAttributeBatch != nil {
		config.MaxAttributeBatch = *c.MaxAttributeBatch
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
