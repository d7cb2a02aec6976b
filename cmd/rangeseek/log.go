package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/teranos/rangeseek/internal/config"
)

// newLogger builds the logger for a command. With no log file, logs go to
// stderr, or nowhere when the terminal UI owns the screen.
func newLogger(cfg config.Config, ui bool) (*log.Logger, func(), error) {
	level, err := cfg.ParseLogLevel()
	if err != nil {
		return nil, nil, err
	}

	logger := log.New()
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})

	closer := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = func() { _ = f.Close() }
	case ui:
		logger.SetOutput(io.Discard)
	default:
		logger.SetOutput(os.Stderr)
	}

	return logger, closer, nil
}
