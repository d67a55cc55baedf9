// Package config resolves the store manager configuration from the
// environment, with an optional .env file underneath.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/mariadb"
	"github.com/Aleph-Alpha/storemanager/v1/metrics"
	"github.com/Aleph-Alpha/storemanager/v1/mongodb"
	"github.com/Aleph-Alpha/storemanager/v1/productstore"
	"github.com/Aleph-Alpha/storemanager/v1/tracer"
	"github.com/Aleph-Alpha/storemanager/v1/userstore"
)

// ServiceName identifies the application in logs, metrics and traces.
const ServiceName = "storemanager"

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Config is the resolved application configuration.
type Config struct {
	Products productstore.Config
	Users    userstore.Config
	Logger   logger.Config
	Metrics  metrics.Config
	Tracer   tracer.Config
}

// envBinding ties a viper key to its environment variable.
type envBinding struct {
	Key      string
	EnvVar   string
	Default  interface{}
	Validate func(string) error
}

// Keys are the lowercased variable names so that values read from a .env
// file land on the same key as the environment variable.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"mysql_host", "MYSQL_HOST", mariadb.DefaultHost, nil},
		{"mysql_port", "MYSQL_PORT", mariadb.DefaultPort, validatePort},
		{"mysql_db_name", "MYSQL_DB_NAME", "", nil},
		{"mysql_auto_migrate", "MYSQL_AUTO_MIGRATE", false, validateBool},
		{"db_username", "DB_USERNAME", "", nil},
		{"db_password", "DB_PASSWORD", "", nil},
		{"mongodb_host", "MONGODB_HOST", mongodb.DefaultHost, nil},
		{"mongodb_port", "MONGODB_PORT", mongodb.DefaultPort, validatePort},
		{"mongodb_db_name", "MONGODB_DB_NAME", mongodb.DefaultDbName, nil},
		{"db_connect_timeout", "DB_CONNECT_TIMEOUT", "5s", validateDuration},
		{"db_query_timeout", "DB_QUERY_TIMEOUT", "10s", validateDuration},
		{"zap_logger_level", "ZAP_LOGGER_LEVEL", logger.Info, validateLevel},
		{"metrics_address", "METRICS_ADDRESS", "", nil},
		{"tracing_enable_export", "TRACING_ENABLE_EXPORT", false, validateBool},
		{"app_env", "APP_ENV", "development", nil},
	}
}

// Load resolves the configuration. envFile is read first if it exists; an
// empty envFile means DefaultEnvFile. Environment variables always win over
// the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := readEnvFile(v, envFile); err != nil {
		return nil, err
	}

	bindings := getEnvBindings()
	var problems []string
	for _, b := range bindings {
		v.SetDefault(b.Key, b.Default)
		if err := v.BindEnv(b.Key, b.EnvVar); err != nil {
			problems = append(problems, fmt.Sprintf("failed to bind %s: %v", b.EnvVar, err))
			continue
		}
		if b.Validate == nil {
			continue
		}
		if value := v.GetString(b.Key); value != "" {
			if err := b.Validate(value); err != nil {
				problems = append(problems, fmt.Sprintf("invalid %s value %q: %v", b.EnvVar, value, err))
			}
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("configuration issues:\n  - %s", strings.Join(problems, "\n  - "))
	}

	return fromViper(v), nil
}

func readEnvFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	connectTimeout := v.GetDuration("db_connect_timeout")
	queryTimeout := v.GetDuration("db_query_timeout")
	user := v.GetString("db_username")
	password := v.GetString("db_password")

	return &Config{
		Products: productstore.Config{
			Database: mariadb.Config{
				Connection: mariadb.Connection{
					Host:         v.GetString("mysql_host"),
					Port:         v.GetString("mysql_port"),
					User:         user,
					Password:     password,
					DbName:       v.GetString("mysql_db_name"),
					Timeout:      connectTimeout,
					ReadTimeout:  queryTimeout,
					WriteTimeout: queryTimeout,
				},
			},
			QueryTimeout: queryTimeout,
			AutoMigrate:  v.GetBool("mysql_auto_migrate"),
		},
		Users: userstore.Config{
			Database: mongodb.Config{
				Connection: mongodb.Connection{
					Host:     v.GetString("mongodb_host"),
					Port:     v.GetString("mongodb_port"),
					User:     user,
					Password: password,
					DbName:   v.GetString("mongodb_db_name"),
				},
				ConnectionDetails: mongodb.ConnectionDetails{
					ConnectTimeout:         connectTimeout,
					ServerSelectionTimeout: connectTimeout,
					OperationTimeout:       queryTimeout,
				},
			},
			QueryTimeout: queryTimeout,
		},
		Logger: logger.Config{
			Level:         v.GetString("zap_logger_level"),
			ServiceName:   ServiceName,
			EnableTracing: true,
		},
		Metrics: metrics.Config{
			Address:                 v.GetString("metrics_address"),
			ServiceName:             ServiceName,
			EnableDefaultCollectors: v.GetString("metrics_address") != "",
		},
		Tracer: tracer.Config{
			ServiceName:  ServiceName,
			AppEnv:       v.GetString("app_env"),
			EnableExport: v.GetBool("tracing_enable_export"),
		},
	}
}

func validateBool(value string) error {
	_, err := strconv.ParseBool(value)
	return err
}

func validateDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func validatePort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("must be between 1 and 65535")
	}
	return nil
}

func validateLevel(value string) error {
	switch value {
	case logger.Debug, logger.Info, logger.Warning, logger.Error:
		return nil
	}
	return fmt.Errorf("must be one of %s, %s, %s, %s", logger.Debug, logger.Info, logger.Warning, logger.Error)
}
