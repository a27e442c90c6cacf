package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseJson_OverlaysValuesFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	content := `{
		"endpoint_addr_http": ":7070",
		"mongo_uri": "mongodb://json:27017",
		"mongo_database": "todos_json",
		"secret_key": "jsonsecret",
		"token_validity_duration": "48h",
		"query_timeout": "3s",
		"bcrypt_cost": 6
	}`

	path := filepath.Join(t.TempDir(), "conf.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	os.Args = []string{"testbin", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":7070", c.EndpointAddrHTTP)
	assert.Equal(t, "mongodb://json:27017", c.MongoURI)
	assert.Equal(t, "todos_json", c.MongoDatabase)
	assert.Equal(t, "jsonsecret", c.SecretKey)
	assert.Equal(t, 48*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 3*time.Second, c.QueryTimeout)
	assert.Equal(t, 6, c.BcryptCost)
}

func TestParseJson_NoFlagLeavesConfigUntouched(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, "secretKey", c.SecretKey)
}
