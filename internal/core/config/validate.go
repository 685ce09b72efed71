package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, required),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateHistory(),
	)
}

func (c *Config) validateHistory() error {
	var errs criterio.FieldErrorsBuilder

	if c.History.MaxEntries < 1 {
		errs = errs.Append("history.max_entries", fmt.Errorf("must be at least 1"))
	}
	if c.History.RotateMB < 1 {
		errs = errs.Append("history.rotate_mb", fmt.Errorf("must be at least 1"))
	}

	return errs.ToError()
}

func required(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
