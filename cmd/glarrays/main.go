// glarrays converts polygon meshes into C headers of OpenGL vertex arrays.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/glarrays/internal/config"
	"github.com/Faultbox/glarrays/internal/export"
	"github.com/Faultbox/glarrays/internal/logger"
	"github.com/Faultbox/glarrays/pkg/formats"
)

func main() {
	flag.Usage = func() { printUsage(os.Stderr) }
	config.ParseFlags()
	os.Exit(run(flag.Args(), os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return 2
	}

	command := args[0]
	args = args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage(stdout)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	switch command {
	case "export", "x":
		return cmdExport(cfg, args, stdout, false)
	case "info":
		return cmdExport(cfg, args, stdout, true)
	case "config":
		return cmdConfig(cfg, args, stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `glarrays - export polygon meshes as OpenGL array headers

Usage:
  glarrays [flags] <command> [arguments]

Commands:
  export <file.obj>...   Write one <NAME>.h per object
  info <file.obj>...     Show per-object buffer statistics without writing
  config                 Print the effective configuration
  config save [path]     Write it to path (default: user config dir)

Flags:
  -config <path>         Config file (default ./glarrays.yaml, then user config dir)
  -out <dir>             Output directory for headers
  -generate-normals      Use flat face normals when the source has none
  -encoding <name>       Object name encoding: utf-8, euc-kr
  -log-file <path>       Also write logs to a rotated file
  -debug                 Enable debug logging

Examples:
  glarrays -out include/models export ship.obj
  glarrays info ship.obj`)
}

func cmdConfig(cfg *config.Config, args []string, stdout io.Writer) int {
	if len(args) == 0 {
		if err := cfg.Encode(stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	if args[0] != "save" || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "Usage: glarrays config [save [path]]")
		return 2
	}

	path := config.UserConfigPath()
	var err error
	if len(args) == 2 {
		path = args[1]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		logger.Error("failed to save config", zap.String("path", path), zap.Error(err))
		return 1
	}
	logger.Info("saved config", zap.String("path", path))
	fmt.Fprintf(stdout, "Saved %s\n", path)
	return 0
}

func cmdExport(cfg *config.Config, files []string, stdout io.Writer, dryRun bool) int {
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: glarrays export <file.obj>...")
		return 2
	}

	opts := []export.Option{export.WithLogger(logger.Log)}
	if dryRun {
		opts = append(opts, export.WithDryRun())
	}
	exp, err := export.New(cfg.Export, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	status := 0
	for _, path := range files {
		obj, err := formats.ParseOBJFile(path)
		if err != nil {
			logger.Error("failed to read source", zap.String("path", path), zap.Error(err))
			status = 1
			continue
		}
		logger.Debug("parsed source",
			zap.String("path", path),
			zap.Int("objects", len(obj.Objects)),
			zap.Int("faces", obj.FaceCount()))

		if len(obj.Objects) == 0 {
			logger.Warn("source has no faces", zap.String("path", path))
		}
		results, err := exp.ExportOBJ(obj)
		if dryRun {
			printStats(stdout, path, results)
		} else {
			printWritten(stdout, results)
		}
		if err != nil {
			status = 1
		}
	}
	return status
}

func printWritten(w io.Writer, results []export.Result) {
	for _, r := range results {
		if r.File != "" {
			fmt.Fprintf(w, "%s: %d vertices, %d indices\n", r.File, r.Vertices, r.Indices)
		}
	}
}

func printStats(w io.Writer, path string, results []export.Result) {
	fmt.Fprintf(w, "Source:  %s\n", path)
	fmt.Fprintf(w, "Objects: %d\n\n", len(results))
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(w, "  %-24s %8s %10s %9s %8s %5s\n", "OBJECT", "FACES", "TRIANGLES", "VERTICES", "INDICES", "DUPS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "  %-24s %8d %10d  error: %v\n", r.Object, r.Faces, r.Triangles, r.Err)
			continue
		}
		fmt.Fprintf(w, "  %-24s %8d %10d %9d %8d %5d\n", r.Object, r.Faces, r.Triangles, r.Vertices, r.Indices, r.Duplicates)
	}
}
