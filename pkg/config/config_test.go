package config_test

import (
	"testing"

	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.True(t, cfg.Ledger.TaxRate.Equal(decimal.RequireFromString("0.19")))
	assert.Equal(t, int32(2), cfg.Ledger.MoneyScale)
	assert.Equal(t, config.DeletePolicyBlock, cfg.Ledger.DeletePolicy)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("LEDGER_TAX_RATE", "0.05")
	t.Setenv("LEDGER_MONEY_SCALE", "4")
	t.Setenv("LEDGER_DELETE_POLICY", "cascade")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "0.05", cfg.Ledger.TaxRate.String())
	assert.Equal(t, int32(4), cfg.Ledger.MoneyScale)
	assert.Equal(t, config.DeletePolicyCascade, cfg.Ledger.DeletePolicy)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_RejectsInvalidLedgerValues(t *testing.T) {
	cases := map[string]string{
		"LEDGER_TAX_RATE":      "1.5",
		"LEDGER_DELETE_POLICY": "orphan",
		"DB_DRIVER":            "mysql",
		"DB_MAX_CONNS":         "0",
		"LOG_LEVEL":            "verbose",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}

	t.Run("tasa no numérica", func(t *testing.T) {
		t.Setenv("LEDGER_TAX_RATE", "diecinueve")
		_, err := config.Load()
		assert.ErrorContains(t, err, "LEDGER_TAX_RATE")
	})
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "kardex", Password: "p@ss", DBName: "kardex", SSLMode: "disable"}
	assert.Equal(t, "postgres://kardex:p%40ss@db:5432/kardex?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
