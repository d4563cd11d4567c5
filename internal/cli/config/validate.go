package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/confreport/internal/cli/output"
	"github.com/leapstack-labs/confreport/pkg/configtables"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if names := configtables.StyleNames(); !slices.Contains(names, strings.ToLower(c.Style)) {
		errs = append(errs, fmt.Errorf("unknown style %q (available: %s)", c.Style, strings.Join(names, ", ")))
	}
	if modes := output.Modes(); c.OutputFormat != "" && !slices.Contains(modes, strings.ToLower(c.OutputFormat)) {
		errs = append(errs, fmt.Errorf("unknown output format %q (available: %s)", c.OutputFormat, strings.Join(modes, ", ")))
	}
	if c.Delimiter == "" {
		errs = append(errs, errors.New("delimiter must not be empty"))
	}
	if c.Marker == "" {
		errs = append(errs, errors.New("marker must not be empty"))
	}

	return errors.Join(errs...)
}
