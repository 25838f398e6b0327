// Command tsfix rewrites the timestamp columns of the newest processed CSV
// to ISO-8601, keeping the original next to it as <file>.bak.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rickgao/crypto-etl/internal/config"
	"github.com/rickgao/crypto-etl/internal/table"
)

// options are the command-line settings.
type options struct {
	configPath string
	envFile    string
	file       string
	preview    int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", config.DefaultConfigPath, "path to config file")
	flag.StringVar(&opts.envFile, "env", config.DefaultEnvFile, "path to .env file")
	flag.StringVar(&opts.file, "file", "", "CSV to fix (default: newest in the processed dir)")
	flag.IntVar(&opts.preview, "preview", 5, "rows to print after fixing, 0 to disable")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		slog.Error("timestamp fix failed", "error", err)
		os.Exit(1)
	}
}

// run fixes one CSV. Logs and the preview go to out; the log level comes
// from the loaded config.
func run(opts options, out io.Writer) error {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return err
	}
	cfg, err := config.LoadAndValidate(opts.configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))

	file := opts.file
	if file == "" {
		file, err = table.LatestCSV(cfg.Storage.ProcessedDir)
		if err != nil {
			return err
		}
	}

	t, err := table.ReadCSV(file)
	if err != nil {
		return err
	}

	backup := file + ".bak"
	if err := copyFile(file, backup); err != nil {
		return fmt.Errorf("backup %s: %w", file, err)
	}

	changed := table.NormalizeTimestamps(t, logger)
	if err := table.WriteFile(file, t); err != nil {
		return err
	}

	logger.Info("timestamps converted",
		"file", file,
		"backup", backup,
		"rows", t.Len(),
		"cells_changed", changed,
	)

	if opts.preview > 0 {
		return table.Render(out, t, opts.preview)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
