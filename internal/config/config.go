package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	BindAddress         string
	Port                int
	Backlog             int
	ContentRoot         string
	Timeout             time.Duration
	PoolSize            int
	QueueSize           int
	SilentOnMissingFile bool
	LogLevel            string
	LogOutput           string
}

// InitConfig Инициализация структуры, содержащей конфигурацию сервера, полученную из флагов или
// переменных окружения. Переменные окружения имеют приоритет над флагами.
func InitConfig() (*Config, error) {
	return ParseConfig(os.Args[0], os.Args[1:])
}

// ParseConfig Разбор флагов из args и переопределение их переменными окружения.
func ParseConfig(name string, args []string) (*Config, error) {
	config := &Config{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&config.BindAddress, "a", "127.0.0.1", "Bind address")
	fs.IntVar(&config.Port, "p", 8080, "TCP port")
	fs.IntVar(&config.Backlog, "b", 10, "Listen backlog size")
	fs.StringVar(&config.ContentRoot, "r", "./public", "Content root directory")
	fs.DurationVar(&config.Timeout, "t", 8000*time.Millisecond, "Receive/send timeout (example: 8s, 500ms)")
	fs.IntVar(&config.PoolSize, "w", 64, "Number of connection handler workers")
	fs.IntVar(&config.QueueSize, "q", 0, "Accepted connections queue size (0 - workers*20)")
	fs.BoolVar(&config.SilentOnMissingFile, "silent-missing", false, "Close connection without response when a file with a known extension is missing")
	fs.StringVar(&config.LogLevel, "ll", "Info", "Log level for logging (example: Debug, Info, Warn, Error)")
	fs.StringVar(&config.LogOutput, "lo", "stdout", "Log output: stdout, stderr or file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if value, ok := os.LookupEnv("BIND_ADDRESS"); ok {
		config.BindAddress = value
	}

	if value, ok := os.LookupEnv("CONTENT_ROOT"); ok {
		config.ContentRoot = value
	}

	if value, ok := os.LookupEnv("LOG_LEVEL"); ok {
		config.LogLevel = value
	}

	if value, ok := os.LookupEnv("LOG_OUTPUT"); ok {
		config.LogOutput = value
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"PORT", &config.Port},
		{"BACKLOG", &config.Backlog},
		{"POOL_SIZE", &config.PoolSize},
		{"QUEUE_SIZE", &config.QueueSize},
	}

	for _, v := range ints {
		value, ok := os.LookupEnv(v.env)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("некорректное значение %s=%q: %w", v.env, value, err)
		}
		*v.dst = n
	}

	if value, ok := os.LookupEnv("IO_TIMEOUT"); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("некорректное значение IO_TIMEOUT=%q: %w", value, err)
		}
		config.Timeout = d
	}

	if value, ok := os.LookupEnv("SILENT_MISSING_FILE"); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("некорректное значение SILENT_MISSING_FILE=%q: %w", value, err)
		}
		config.SilentOnMissingFile = b
	}

	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("порт %d вне диапазона 0-65535", config.Port)
	}

	return config, nil
}
