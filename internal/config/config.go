package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	RPCURL       string
	VaultAddress string
	StartBlock   uint64

	PollIntervalMS int
	MaxBlockRange  uint64

	SeenTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "securevault"),
		MySQLUser: getenv("MYSQL_USER", "securevault"),
		MySQLPass: getenv("MYSQL_PASS", "securevault"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		RPCURL:       getenv("RPC_URL", "https://api.avax.network/ext/bc/C/rpc"),
		VaultAddress: getenv("VAULT_ADDRESS", "0x64Be1630ffD8144EB52896dCD099C805B93328e3"),

		StartBlock:     73771073,
		PollIntervalMS: 4000,
		MaxBlockRange:  2000,
		SeenTTLSecs:    300,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("START_BLOCK"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.StartBlock = n
		}
	}
	if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PollIntervalMS = n
		}
	}
	if v := os.Getenv("MAX_BLOCK_RANGE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			c.MaxBlockRange = n
		}
	}
	if v := os.Getenv("SEEN_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SeenTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RPCURL == "" {
		return errors.New("missing RPC_URL")
	}
	if !common.IsHexAddress(c.VaultAddress) {
		return fmt.Errorf("invalid VAULT_ADDRESS %q", c.VaultAddress)
	}
	return nil
}

func (c *Config) Vault() common.Address { return common.HexToAddress(c.VaultAddress) }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
