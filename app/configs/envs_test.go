package configs

import (
	"bytes"
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	keys, err := GenerateKeys()
	require.NoError(t, err)
	return Config{
		DBDriver:   DriverMySQL,
		JWTSecret:  keys.JWTSecret,
		AppAuthKey: keys.AuthKey,
		AppEncKey:  keys.EncKey,
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", " Postgres ")
	t.Setenv("APP_PORT", "9090")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, ":9090", cfg.ServerAddr())
	assert.Equal(t, "products", cfg.UploadBucket)
	assert.Equal(t, 10, cfg.DBMaxRetries)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())

	cfg := validConfig(t)
	cfg.DBDriver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.JWTSecret = "short"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg = validConfig(t)
	cfg.AppEncKey = base64.URLEncoding.EncodeToString([]byte("too-short"))
	assert.ErrorContains(t, cfg.Validate(), "APP_ENC_KEY")

	cfg = validConfig(t)
	cfg.AppAuthKey = ""
	assert.ErrorContains(t, cfg.Validate(), "APP_AUTH_KEY")
}

func TestDSN(t *testing.T) {
	cfg := Config{DBDriver: DriverMySQL, DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "shop"}
	assert.Equal(t, "u:p@tcp(h:3306)/shop?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())

	cfg.DBDriver = DriverPostgres
	cfg.DBPort = "5432"
	cfg.DBSSLMode = "disable"
	assert.Equal(t, "host=h user=u password=p dbname=shop port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}

func TestGeneratedKeysWriteEnvFile(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, keys.WriteEnv(&buf))
	assert.Contains(t, buf.String(), "JWT_SECRET="+keys.JWTSecret)

	path := filepath.Join(t.TempDir(), ".env.new_keys")
	require.NoError(t, keys.WriteEnvFile(path))
	assert.Error(t, keys.WriteEnvFile(path), "existing files are not overwritten")
}
