package config

import "flag"

var (
	flagConfig          = flag.String("config", "", "Path to config file")
	flagDebug           = flag.Bool("debug", false, "Enable debug logging")
	flagOutputDir       = flag.String("out", "", "Output directory for generated headers")
	flagGenerateNormals = flag.Bool("generate-normals", false, "Use flat face normals when the source has none")
	flagEncoding        = flag.String("encoding", "", "Encoding of object names (utf-8, euc-kr)")
	flagLogFile         = flag.String("log-file", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOutputDir != "" {
		cfg.Export.OutputDir = *flagOutputDir
	}
	if *flagGenerateNormals {
		cfg.Export.GenerateNormals = true
	}
	if *flagEncoding != "" {
		cfg.Export.NameEncoding = *flagEncoding
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
