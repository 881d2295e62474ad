package config

const (
	defaultQuota               = 10
	defaultDatasetPath         = "skills.json"
	defaultUseSeedCatalog      = true
	defaultLogLevel            = "info"
	defaultGenerateConcurrency = 4
	defaultGenerateMaxTokens   = 2048
	defaultGenerateTemperature = 0.7
	defaultGenerateOutput      = "generated-catalog.yaml"
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Quota:          defaultQuota,
		Dataset:        defaultDatasetPath,
		UseSeedCatalog: defaultUseSeedCatalog,
		LogLevel:       defaultLogLevel,
		Generate: Generate{
			Concurrency: defaultGenerateConcurrency,
			MaxTokens:   defaultGenerateMaxTokens,
			Temperature: defaultGenerateTemperature,
			Output:      defaultGenerateOutput,
		},
	}
}
