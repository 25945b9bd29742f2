package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 500, cfg.Analytics.CohortMaxStudents)
	assert.Equal(t, 30*time.Minute, cfg.Analytics.SyllabusCacheTTL)
	assert.Equal(t, []string{"./models/risk_model.json", "./data/risk_model.json"}, cfg.Risk.SearchPaths)
	assert.False(t, cfg.Telegram.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("COHORT_MAX_STUDENTS", "25")
	t.Setenv("RISK_MODEL_PATH", "/srv/model.json")
	t.Setenv("REPORTS_RESULT_TTL", "garbage")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPgx, cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Analytics.CohortMaxStudents)
	assert.Equal(t, "/srv/model.json", cfg.Risk.ModelPath)
	assert.Equal(t, 24*time.Hour, cfg.Reports.ResultTTL)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("ENABLE_TELEGRAM", "true")
	_, err = Load()
	assert.Error(t, err)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}
