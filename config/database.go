package config

import (
	"time"

	"tonotes/utils"
)

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

type DatabaseConfig struct {
	Driver string

	// Mongo
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
	RetryWrites     bool
	// UseTransactions needs a replica set; standalone servers must turn it off.
	UseTransactions bool

	// MySQL
	MySQLDSN        string
	MySQLReplicaDSN string
	MaxOpenConns    int
	MaxIdleConns    int
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          utils.GetEnvAsString("STORE_DRIVER", DriverMongo),
		URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", "tonotes"),
		RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
		UseTransactions: utils.GetEnvAsBool("MONGO_TRANSACTIONS", true),
		MySQLDSN:        utils.GetEnvAsString("MYSQL_DSN", ""),
		MySQLReplicaDSN: utils.GetEnvAsString("MYSQL_REPLICA_DSN", ""),
		MaxOpenConns:    utils.GetEnvAsInt("MYSQL_MAX_OPEN_CONNS", 50),
		MaxIdleConns:    utils.GetEnvAsInt("MYSQL_MAX_IDLE_CONNS", 10),
	}
}
