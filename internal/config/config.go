// Package config handles exporter configuration loading and management.
package config

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds header generation settings.
type ExportConfig struct {
	OutputDir       string `yaml:"output_dir"`       // Directory receiving <NAME>.h files
	GenerateNormals bool   `yaml:"generate_normals"` // Use flat face normals when the source has none
	NameEncoding    string `yaml:"name_encoding"`    // Encoding of object names in the source file
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			OutputDir:       ".",
			GenerateNormals: false,
			NameEncoding:    "utf-8",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
