package logging

import (
	"fmt"
	"time"

	"jobportal/internal/logging/adapters"
	"jobportal/internal/logging/types"
)

// AdapterFactory creates logging adapters based on configuration
type AdapterFactory struct{}

// NewAdapterFactory creates a new adapter factory
func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{}
}

// CreateAdapter creates a logging adapter based on the provided configuration
func (f *AdapterFactory) CreateAdapter(adapterConfig types.AdapterConfig) (types.LogAdapter, error) {
	switch adapterConfig.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(adapterConfig.Name, adapters.StdoutConfig{
			Format:    getStringOption(adapterConfig.Options, "format", "json"),
			Colorized: getBoolOption(adapterConfig.Options, "colorized", false),
		}), nil
	case "file":
		cfg := adapters.FileConfig{
			FilePath:   getStringOption(adapterConfig.Options, "file_path", ""),
			Format:     getStringOption(adapterConfig.Options, "format", "json"),
			MaxSize:    getInt64Option(adapterConfig.Options, "max_size", 0),
			CreateDirs: getBoolOption(adapterConfig.Options, "create_dirs", true),
		}
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path is required for file adapter")
		}
		return adapters.NewFileAdapter(adapterConfig.Name, cfg)
	case "betterstack":
		return adapters.NewBetterstackAdapter(adapterConfig.Name, adapters.BetterstackConfig{
			SourceToken:   getStringOption(adapterConfig.Options, "source_token", ""),
			Endpoint:      getStringOption(adapterConfig.Options, "endpoint", adapters.DefaultBetterstackEndpoint),
			BatchSize:     int(getInt64Option(adapterConfig.Options, "batch_size", 100)),
			FlushInterval: getDurationOption(adapterConfig.Options, "flush_interval", 5*time.Second),
			MaxRetries:    int(getInt64Option(adapterConfig.Options, "max_retries", 3)),
			Timeout:       getDurationOption(adapterConfig.Options, "timeout", 10*time.Second),
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", adapterConfig.Type)
	}
}

func getStringOption(options map[string]interface{}, key string, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getInt64Option(options map[string]interface{}, key string, defaultValue int64) int64 {
	if value, exists := options[key]; exists {
		switch v := value.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return defaultValue
}

func getBoolOption(options map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := options[key]; exists {
		if boolVal, ok := value.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

// getDurationOption accepts a duration string such as "5s"
func getDurationOption(options map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			if d, err := time.ParseDuration(str); err == nil {
				return d
			}
		}
	}
	return defaultValue
}
