package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sparkify/dwhdef/database"
	"github.com/sparkify/dwhdef/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dwhCfg = testutil.StripHeredoc(`
	[CLUSTER]
	HOST=dwhcluster.abc123.us-west-2.redshift.amazonaws.com
	DB_NAME=dwh
	DB_USER=dwhuser
	DB_PASSWORD=Passw0rd#1;x
	DB_PORT=5439

	[IAM_ROLE]
	ARN=arn:aws:iam::123456789012:role/dwhRole
	`)

// clearEnv hides DWH_ variables of the developer's shell from the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range knownKeys {
		name := EnvPrefix + strings.ToUpper(key)
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := testutil.WriteFile(t, "dwh.cfg", dwhCfg)

	cluster, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Cluster{
		Type:     "redshift",
		Host:     "dwhcluster.abc123.us-west-2.redshift.amazonaws.com",
		DbName:   "dwh",
		User:     "dwhuser",
		Password: "Passw0rd#1;x",
		Port:     5439,
	}, cluster)
	assert.NoError(t, cluster.Validate())
}

func TestLoadLowercaseKeys(t *testing.T) {
	clearEnv(t)
	path := testutil.WriteFile(t, "dwh.cfg", "[cluster]\nhost = localhost\ndb_name = dwh\ndb_user = me\ndb_port = 5432\ndb_type = postgres\n")

	cluster, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cluster.Host)
	assert.Equal(t, "postgres", cluster.Type)
	assert.Equal(t, 5432, cluster.Port)
}

func TestLoadEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("DWH_DB_PASSWORD", "from-env")
	t.Setenv("DWH_DB_PORT", "15439")
	path := testutil.WriteFile(t, "dwh.cfg", dwhCfg)

	cluster, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cluster.Password)
	assert.Equal(t, 15439, cluster.Port)
	assert.Equal(t, "dwhuser", cluster.User)
}

func TestLoadEmptyEnvKeepsFileValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("DWH_DB_PASSWORD", "")
	t.Setenv("DWH_HOST", "")
	path := testutil.WriteFile(t, "dwh.cfg", dwhCfg)

	cluster, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Passw0rd#1;x", cluster.Password)
	assert.Equal(t, "dwhcluster.abc123.us-west-2.redshift.amazonaws.com", cluster.Host)
}

func TestLoadKeepsQuotes(t *testing.T) {
	clearEnv(t)
	path := testutil.WriteFile(t, "dwh.cfg", "[CLUSTER]\nHOST=h\nDB_NAME=dwh\nDB_USER=u\nDB_PASSWORD=\"quoted\"\nDB_PORT=5439\n")

	cluster, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, `"quoted"`, cluster.Password)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing section",
			content: "[IAM_ROLE]\nARN=x\n",
			errMsg:  "no [CLUSTER] section",
		},
		{
			name:    "malformed port",
			content: "[CLUSTER]\nHOST=h\nDB_NAME=d\nDB_USER=u\nDB_PORT=fifty\n",
			errMsg:  "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, "dwh.cfg", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.cfg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cluster Cluster
		errMsgs []string
	}{
		{
			name:    "complete",
			cluster: Cluster{Type: "redshift", Host: "h", DbName: "d", User: "u", Port: 5439},
		},
		{
			name:    "socket instead of host",
			cluster: Cluster{Type: "postgres", Socket: "/tmp", DbName: "d", User: "u", Port: 5432},
		},
		{
			name:    "sqlite only needs a file",
			cluster: Cluster{Type: "sqlite", DbName: "dwh.db"},
		},
		{
			name:    "everything missing",
			cluster: Cluster{Type: "redshift"},
			errMsgs: []string{"db_name is required", "host is required", "db_user is required", "db_port must be between 1 and 65535, got 0"},
		},
		{
			name:    "unknown type",
			cluster: Cluster{Type: "oracle", Host: "h", DbName: "d", User: "u", Port: 1521},
			errMsgs: []string{`db_type "oracle" is not one of`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cluster.Validate()
			if len(tt.errMsgs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			for _, msg := range tt.errMsgs {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestDatabaseConfig(t *testing.T) {
	cluster := Cluster{Type: "PostgreSQL", Host: "h", DbName: "d", User: "u", Password: "p", Port: 5432, SslMode: "require"}
	assert.Equal(t, database.Config{
		Type:     "postgres",
		Host:     "h",
		DbName:   "d",
		User:     "u",
		Password: "p",
		Port:     5432,
		SslMode:  "require",
	}, cluster.DatabaseConfig())
}

func TestMaskedAndWithPassword(t *testing.T) {
	cluster := Cluster{User: "u", Password: "secret"}
	assert.Equal(t, "********", cluster.Masked().Password)
	assert.Equal(t, "secret", cluster.Password)
	assert.Equal(t, "", Cluster{}.Masked().Password)
	assert.Equal(t, "typed", cluster.WithPassword("typed").Password)
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	path := testutil.WriteFile(t, ".env", "DWH_DB_USER=dotenv-user\n")

	require.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), "absent.env"), path))
	t.Cleanup(func() { os.Unsetenv("DWH_DB_USER") })
	assert.Equal(t, "dotenv-user", os.Getenv("DWH_DB_USER"))
}
