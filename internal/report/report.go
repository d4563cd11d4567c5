// Package report runs the whole pipeline for one configuration file:
// load, validate, build the error tree and, for a valid configuration,
// the summary tables.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/confreport/internal/loader"
	"github.com/leapstack-labs/confreport/internal/validate"
	"github.com/leapstack-labs/confreport/pkg/configtables"
	"github.com/leapstack-labs/confreport/pkg/errortree"
)

// Options configures Generate.
type Options struct {
	Delimiter      string
	Marker         string
	TreePrefix     string
	Renderer       configtables.Renderer
	IncludeMissing bool
	IncludeValid   bool
	Logger         *slog.Logger
}

// Report is the outcome for one configuration.
type Report struct {
	Validation *validate.Result
	Errors     *errortree.Report
	// Tables is nil when the configuration is invalid.
	Tables *configtables.SectionSet
}

// Valid reports whether the configuration passed validation.
func (r *Report) Valid() bool {
	return r.Errors.Valid()
}

// ErrorTree returns the rendered error tree, or false when there is
// nothing to report.
func (r *Report) ErrorTree() (string, bool) {
	return r.Errors.Text()
}

// TablesText returns every rendered table, or false when there are none.
func (r *Report) TablesText() (string, bool) {
	if r.Tables == nil {
		return "", false
	}
	return r.Tables.Concat()
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := struct {
		Errors *errortree.Report        `json:"errors"`
		Tables *configtables.SectionSet `json:"tables,omitempty"`
	}{Errors: r.Errors, Tables: r.Tables}
	return json.Marshal(out)
}

// Run loads the two files and generates their report.
func Run(ctx context.Context, configPath, specPath string, opts Options) (*Report, error) {
	pair, err := loader.LoadPair(ctx, configPath, specPath)
	if err != nil {
		return nil, err
	}
	return Generate(pair, opts)
}

// Generate validates pair and builds the error report and, when the
// configuration is valid, the tables from the default-filled configuration.
func Generate(pair *loader.Pair, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	v := validate.New(validate.Options{Delimiter: opts.Delimiter, Logger: logger})
	res, err := v.Validate(pair.Config, pair.Spec)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	eb := errortree.NewBuilder(res.Config, pair.Spec, errortree.Options{
		Prefix:    opts.TreePrefix,
		Marker:    opts.Marker,
		Delimiter: opts.Delimiter,
		Logger:    logger,
	})
	rep := &Report{
		Validation: res,
		Errors:     eb.Report(res.Tree, opts.IncludeMissing, opts.IncludeValid),
	}
	if !rep.Valid() {
		logger.Info("configuration is invalid, skipping tables")
		return rep, nil
	}

	tables, err := configtables.Generate(res.Config, pair.Spec, configtables.Options{
		Delimiter: opts.Delimiter,
		Renderer:  opts.Renderer,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tables: %w", err)
	}
	rep.Tables = tables
	logger.Debug("report generated", "sections", tables.Len())
	return rep, nil
}
