package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"BIND_ADDRESS", "PORT", "BACKLOG", "CONTENT_ROOT", "IO_TIMEOUT",
	"POOL_SIZE", "QUEUE_SIZE", "SILENT_MISSING_FILE", "LOG_LEVEL", "LOG_OUTPUT",
}

// clearEnv Убирает переменные окружения конфигурации на время теста.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, value) })
		}
	}
}

// TestParseConfigDefaults Проверяет значения по умолчанию.
func TestParseConfigDefaults(t *testing.T) {
	clearEnv(t)

	config, err := ParseConfig("sws", nil)

	require.NoError(t, err)
	assert.Equal(t, &Config{
		BindAddress: "127.0.0.1",
		Port:        8080,
		Backlog:     10,
		ContentRoot: "./public",
		Timeout:     8 * time.Second,
		PoolSize:    64,
		QueueSize:   0,
		LogLevel:    "Info",
		LogOutput:   "stdout",
	}, config)
}

// TestParseConfigFlags Проверяет разбор флагов.
func TestParseConfigFlags(t *testing.T) {
	clearEnv(t)

	config, err := ParseConfig("sws", []string{
		"-a", "0.0.0.0", "-p", "9090", "-b", "64", "-r", "/srv/www",
		"-t", "2s", "-w", "4", "-q", "16", "-silent-missing", "-ll", "debug", "-lo", "/var/log/sws.log",
	})

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", config.BindAddress)
	assert.Equal(t, 9090, config.Port)
	assert.Equal(t, 64, config.Backlog)
	assert.Equal(t, "/srv/www", config.ContentRoot)
	assert.Equal(t, 2*time.Second, config.Timeout)
	assert.Equal(t, 4, config.PoolSize)
	assert.Equal(t, 16, config.QueueSize)
	assert.True(t, config.SilentOnMissingFile)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "/var/log/sws.log", config.LogOutput)
}

// TestParseConfigEnvOverridesFlags Проверяет приоритет переменных окружения над флагами.
func TestParseConfigEnvOverridesFlags(t *testing.T) {
	clearEnv(t)

	t.Setenv("BIND_ADDRESS", "::1")
	t.Setenv("PORT", "8443")
	t.Setenv("BACKLOG", "5")
	t.Setenv("CONTENT_ROOT", "/data/site")
	t.Setenv("IO_TIMEOUT", "500ms")
	t.Setenv("POOL_SIZE", "2")
	t.Setenv("QUEUE_SIZE", "3")
	t.Setenv("SILENT_MISSING_FILE", "true")
	t.Setenv("LOG_LEVEL", "Error")
	t.Setenv("LOG_OUTPUT", "stderr")

	config, err := ParseConfig("sws", []string{"-a", "10.0.0.1", "-p", "1", "-t", "1m"})

	require.NoError(t, err)
	assert.Equal(t, &Config{
		BindAddress:         "::1",
		Port:                8443,
		Backlog:             5,
		ContentRoot:         "/data/site",
		Timeout:             500 * time.Millisecond,
		PoolSize:            2,
		QueueSize:           3,
		SilentOnMissingFile: true,
		LogLevel:            "Error",
		LogOutput:           "stderr",
	}, config)
}

// TestParseConfigErrors Проверяет ошибки для некорректных значений.
func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "порт не число", env: map[string]string{"PORT": "http"}},
		{name: "backlog не число", env: map[string]string{"BACKLOG": "ten"}},
		{name: "таймаут без единиц", env: map[string]string{"IO_TIMEOUT": "8000"}},
		{name: "некорректный bool", env: map[string]string{"SILENT_MISSING_FILE": "maybe"}},
		{name: "порт вне диапазона", args: []string{"-p", "70000"}},
		{name: "неизвестный флаг", args: []string{"-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			config, err := ParseConfig("sws", tt.args)

			assert.Error(t, err)
			assert.Nil(t, config)
		})
	}
}
