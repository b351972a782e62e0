package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global log level for the loader. Accepts zerolog level
// names ("debug", "info", "warn", "error", "disabled").
func Configure(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// ConfigureConsole additionally routes log output through a human-readable
// console writer, for interactive use.
func ConfigureConsole(level string) error {
	if err := Configure(level); err != nil {
		return err
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}
