package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "30m", c.Scan.Bar)
	assert.Equal(t, 300, c.Scan.TopN)
	assert.Equal(t, 6.0, c.Scan.Threshold)
	assert.Equal(t, 200*time.Millisecond, c.Scan.Delay)
	assert.Equal(t, 10*time.Second, c.Exchange.Timeout)
	assert.Equal(t, "USDT", c.Scan.QuoteCcy)
	assert.Equal(t, "SWAP", c.Exchange.InstType)
	assert.Equal(t, DefaultWatchlist, c.Scan.Watchlist)
	assert.Equal(t, []string{"log"}, c.Notify.Channels)
	assert.Equal(t, 30*time.Second, c.Notify.Email.Timeout)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: test
scan:
  bar: 15m
  top_n: 50
  threshold: 4.5
  delay: 50ms
  watchlist: [BTC, ETH]
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, "15m", c.Scan.Bar)
	assert.Equal(t, 50, c.Scan.TopN)
	assert.Equal(t, 4.5, c.Scan.Threshold)
	assert.Equal(t, 50*time.Millisecond, c.Scan.Delay)
	assert.Equal(t, []string{"BTC", "ETH"}, c.Scan.Watchlist)
	// untouched sections still get defaults
	assert.Equal(t, "https://www.okx.com", c.Exchange.BaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative threshold":    "scan:\n  threshold: -1\n",
		"unknown bar":           "scan:\n  bar: 7m\n",
		"unknown channel":       "notify:\n  channels: [pigeon]\n",
		"email without to":      "notify:\n  channels: [email]\n  email:\n    from: a@b.io\n",
		"queue without redis":   "notify:\n  channels: [queue]\n  email:\n    from: a@b.io\n    to: [c@d.io]\n",
		"kafka without brokers": "notify:\n  channels: [kafka]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	c, err := Load(writeConfig(t, `
scan:
  top_n: 0
  delay: 0s
kafka:
  required_acks: 0
`))
	require.NoError(t, err)

	assert.Equal(t, 0, c.Scan.TopN)
	assert.Equal(t, time.Duration(0), c.Scan.Delay)
	assert.Equal(t, 0, c.Kafka.RequiredAcks)
	// siblings not named in the file keep their defaults
	assert.Equal(t, 6.0, c.Scan.Threshold)
	assert.Equal(t, "gzip", c.Kafka.Compression)
}

func TestLoadWithEnvZeroTopN(t *testing.T) {
	t.Setenv("TOP_N", "0")

	c, err := LoadWithEnv(writeConfig(t, "scan:\n  top_n: 25\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Scan.TopN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("IMPULSE_THRESHOLD", "7.25")
	t.Setenv("TOP_N", "10")
	t.Setenv("WATCHLIST", "sol, doge ,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("NOTIFY_CHANNELS", "log,kafka")

	c, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, 7.25, c.Scan.Threshold)
	assert.Equal(t, 10, c.Scan.TopN)
	assert.Equal(t, []string{"sol", "doge"}, c.Scan.Watchlist)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.HasChannel("kafka"))
	assert.False(t, c.HasChannel("email"))
}

func TestLoadWithEnvBadNumber(t *testing.T) {
	t.Setenv("TOP_N", "many")
	_, err := LoadWithEnv("")
	require.Error(t, err)
}
