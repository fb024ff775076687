package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/stakr/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// strings such as "30m" or integer nanoseconds (timex.Duration).
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	DBConnectTimeout            timex.Duration `json:"db_connect_timeout"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
	ReadinessCheckInterval      timex.Duration `json:"readiness_check_interval"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson overlays config with the non-zero values found in the JSON file
// at path. An empty path loads nothing. Unreadable or invalid files panic.
func parseJson(config *Config, path string) {
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	if c.DBConnectTimeout.Duration != 0 {
		config.DBConnectTimeout = c.DBConnectTimeout.Duration
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ReadinessCheckInterval.Duration != 0 {
		config.ReadinessCheckInterval = c.ReadinessCheckInterval.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
