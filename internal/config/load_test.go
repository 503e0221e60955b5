package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	err = os.Mkdir(tempConfigsSubDir, 0755)
	require.NoError(t, err)

	testAppName := "TestApp"
	testPort := 9090
	testLogLevel := "debug"
	testCompanyID := "TESTCO"
	testProgramID := "ACH-TEST-9"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nCOMPANY_ID=%s\nPROGRAM_STANDARD_ID=%s\n",
		testAppName, testPort, testLogLevel, testCompanyID, testProgramID,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	err = os.WriteFile(envFilePath, []byte(envContent), 0644)
	require.NoError(t, err)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testCompanyID, cfg.Company.ID)
	assert.Equal(t, testProgramID, cfg.Programs.StandardID)

	// Defaults fill in everything the file does not set.
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "settlement_run_outcomes", cfg.Kafka.OutcomeTopic)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "settlement-archive", cfg.Backup.Bucket)
	assert.Equal(t, "ACH-SD-002", cfg.Programs.SameDayID)
	assert.Equal(t, 4, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/test_happy") // Viper will look for configs/test_happy.env
	require.NoError(t, err)
	require.NotNil(t, cfgWithName)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	require.NotNil(t, cfgWithNameAndType)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfigWithName("does_not_exist_uses_defaults")
		require.NoError(t, err)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		cfg := base()
		assert.NoError(t, cfg.validate())
	})

	t.Run("missing company id", func(t *testing.T) {
		cfg := base()
		cfg.Company.ID = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "COMPANY_ID is required")
	})

	t.Run("missing program identifiers", func(t *testing.T) {
		cfg := base()
		cfg.Programs.StandardID = ""
		cfg.Programs.SameDayID = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PROGRAM_STANDARD_ID is required")
		assert.Contains(t, err.Error(), "PROGRAM_SAMEDAY_ID is required")
	})

	t.Run("production requires host key", func(t *testing.T) {
		cfg := base()
		cfg.Application.Env = "production"
		cfg.Transfer.HostKey = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TRANSFER_HOST_KEY is required in production")
	})

	t.Run("invalid server port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERVER_PORT must be greater than 0")
	})

	t.Run("production rejects allow_all authorization", func(t *testing.T) {
		cfg := base()
		cfg.Application.Env = "production"
		cfg.Transfer.HostKey = "c3NoLXJzYSBBQUFB"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH_MODE must be 'static' in production")
	})

	t.Run("static mode requires grants", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Mode = AuthModeStatic
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH_GRANTS is required when AUTH_MODE is 'static'")
	})

	t.Run("static mode with grants is valid", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Mode = AuthModeStatic
		cfg.Auth.Grants = "ops-token:reports:run"
		assert.NoError(t, cfg.validate())
	})

	t.Run("unknown auth mode", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Mode = "oauth"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH_MODE must be 'allow_all' or 'static'")
	})
}

func TestAuthConfig_ParseGrants(t *testing.T) {
	t.Run("multiple credentials and permissions", func(t *testing.T) {
		auth := AuthConfig{Grants: "ops-token:reports:run merchants:onboard, partner-token:merchants:onboard"}
		grants, err := auth.ParseGrants()
		require.NoError(t, err)
		assert.Equal(t, []string{"reports:run", "merchants:onboard"}, grants["ops-token"])
		assert.Equal(t, []string{"merchants:onboard"}, grants["partner-token"])
	})

	t.Run("empty string yields no grants", func(t *testing.T) {
		grants, err := AuthConfig{Grants: ""}.ParseGrants()
		require.NoError(t, err)
		assert.Empty(t, grants)
	})

	t.Run("entry without credential is rejected", func(t *testing.T) {
		_, err := AuthConfig{Grants: ":reports:run"}.ParseGrants()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed grant entry")
	})

	t.Run("entry without permissions is rejected", func(t *testing.T) {
		_, err := AuthConfig{Grants: "ops-token:"}.ParseGrants()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "names no permissions")
	})
}
