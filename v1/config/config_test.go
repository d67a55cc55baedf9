package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/metrics"
	"github.com/Aleph-Alpha/storemanager/v1/mongodb"
	"github.com/Aleph-Alpha/storemanager/v1/productstore"
	"github.com/Aleph-Alpha/storemanager/v1/tracer"
	"github.com/Aleph-Alpha/storemanager/v1/userstore"
)

// clearEnv blanks every bound variable; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, b := range getEnvBindings() {
		t.Setenv(b.EnvVar, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	db := cfg.Products.Database.Connection
	assert.Equal(t, "localhost", db.Host)
	assert.Equal(t, "3306", db.Port)
	assert.Empty(t, db.DbName)
	assert.Equal(t, 5*time.Second, db.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Products.QueryTimeout)
	assert.False(t, cfg.Products.AutoMigrate)

	mongo := cfg.Users.Database
	assert.Equal(t, "localhost", mongo.Connection.Host)
	assert.Equal(t, "27017", mongo.Connection.Port)
	assert.Equal(t, "store", mongo.Connection.DbName)
	assert.Equal(t, 5*time.Second, mongo.ConnectionDetails.ServerSelectionTimeout)
	assert.Equal(t, 10*time.Second, mongo.ConnectionDetails.OperationTimeout)

	assert.Equal(t, logger.Info, cfg.Logger.Level)
	assert.Equal(t, ServiceName, cfg.Logger.ServiceName)
	assert.Empty(t, cfg.Metrics.Address)
	assert.False(t, cfg.Tracer.EnableExport)
	assert.Equal(t, "development", cfg.Tracer.AppEnv)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_HOST", "mysql")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_DB_NAME", "labo")
	t.Setenv("MYSQL_AUTO_MIGRATE", "true")
	t.Setenv("DB_USERNAME", "user")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("MONGODB_HOST", "mongo")
	t.Setenv("DB_CONNECT_TIMEOUT", "2s")
	t.Setenv("DB_QUERY_TIMEOUT", "3s")
	t.Setenv("ZAP_LOGGER_LEVEL", "debug")
	t.Setenv("METRICS_ADDRESS", ":9090")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	db := cfg.Products.Database.Connection
	assert.Equal(t, "mysql", db.Host)
	assert.Equal(t, "3307", db.Port)
	assert.Equal(t, "labo", db.DbName)
	assert.Equal(t, "user", db.User)
	assert.Equal(t, "pass", db.Password)
	assert.Equal(t, 2*time.Second, db.Timeout)
	assert.Equal(t, 3*time.Second, db.ReadTimeout)
	assert.True(t, cfg.Products.AutoMigrate)

	mongo := cfg.Users.Database.Connection
	assert.Equal(t, "mongo", mongo.Host)
	assert.Equal(t, "user", mongo.User)
	assert.Equal(t, "pass", mongo.Password)
	assert.Equal(t, 3*time.Second, cfg.Users.QueryTimeout)

	assert.Equal(t, logger.Debug, cfg.Logger.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.True(t, cfg.Metrics.EnableDefaultCollectors)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "MYSQL_DB_NAME=from_file\nMYSQL_HOST=file-host\nAPP_ENV=staging\n")
	t.Setenv("MYSQL_HOST", "env-host")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from_file", cfg.Products.Database.Connection.DbName)
	assert.Equal(t, "env-host", cfg.Products.Database.Connection.Host, "environment wins over .env")
	assert.Equal(t, "staging", cfg.Tracer.AppEnv)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_QUERY_TIMEOUT", "soon")
	t.Setenv("MYSQL_PORT", "99999")
	t.Setenv("ZAP_LOGGER_LEVEL", "verbose")

	cfg, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DB_QUERY_TIMEOUT")
	assert.Contains(t, err.Error(), "MYSQL_PORT")
	assert.Contains(t, err.Error(), "ZAP_LOGGER_LEVEL")
}

func TestModule(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	var (
		products productstore.Config
		users    userstore.Config
		mongoCfg mongodb.Config
		logCfg   logger.Config
		metCfg   metrics.Config
		trCfg    tracer.Config
	)
	app := fxtest.New(t, cfg.Module(), fx.Populate(&products, &users, &mongoCfg, &logCfg, &metCfg, &trCfg))
	app.RequireStart().RequireStop()

	assert.Equal(t, cfg.Products, products)
	assert.Equal(t, cfg.Users, users)
	assert.Equal(t, cfg.Users.Database, mongoCfg)
	assert.Equal(t, cfg.Tracer, trCfg)
}
