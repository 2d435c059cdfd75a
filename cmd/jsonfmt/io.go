package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// read returns the whole input, from the --input file or stdin, and a name
// for it used in diffs and log lines.
func read(opts *options, stdin io.Reader, logger *slog.Logger) ([]byte, string, error) {
	if opts.InputPath == nil {
		logger.Info("reading from stdin")

		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read from stdin failed: %w", err)
		}

		logger.Info("read", "bytes", len(data))
		return data, "<stdin>", nil
	}

	path := string(*opts.InputPath)
	logger.Info("reading from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	logger.Info("read", "bytes", len(data))
	return data, path, nil
}

func write(opts *options, stdout io.Writer, output string, logger *slog.Logger) error {
	if opts.OutputPath == nil {
		logger.Info("writing to stdout", "bytes", len(output))

		_, err := io.WriteString(stdout, output)
		return err
	}

	path := string(*opts.OutputPath)
	logger.Info("writing to file", "path", path, "bytes", len(output))

	return os.WriteFile(path, []byte(output), 0o644)
}
