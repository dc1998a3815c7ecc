package main

import (
	"fmt"
	"os"

	"github.com/prepgraph/prepgraph/pkg/logger"
)

// Logger environment variables, consulted when the matching flag is unset.
const (
	logLevelEnvVar  = "LOG_LEVEL"
	logFileEnvVar   = "LOG_FILE"
	logFormatEnvVar = "LOG_FORMAT"
)

// initLogger installs the process logger. Priority: CLI flags > env vars >
// defaults (info level, text format, stderr).
func initLogger(cli *CLI) (func(), error) {
	logLevel := cli.LogLevel
	if logLevel == "" {
		logLevel = os.Getenv(logLevelEnvVar)
	}

	logFile := cli.LogFile
	if logFile == "" {
		logFile = os.Getenv(logFileEnvVar)
	}

	logFormat := cli.LogFormat
	if logFormat == "" {
		logFormat = os.Getenv(logFormatEnvVar)
	}

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	output := os.Stderr
	var cleanup func()
	if logFile != "" {
		file, cleanupFn, err := logger.OpenLogFile(logFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		cleanup = cleanupFn
	}

	logger.Init(level, output, logFormat)
	return cleanup, nil
}
