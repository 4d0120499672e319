package engine

import (
	"context"
	"fmt"

	"github.com/pacfix/pacfix/pkg/telemetry"
)

// FixTarget is the sentinel target selecting a full automated fixup
// cycle instead of a single package.
const FixTarget = "--fix"

// defaultRemoveAttempts bounds the uninstall retries, tolerating
// transient package database lock failures.
const defaultRemoveAttempts = 2

// ReportSink receives the journal after each driver iteration.
type ReportSink interface {
	Write(j *Journal) error
}

// Options configures a new Engine. Runner, Diagnostics and Commands are
// required; everything else has a working default.
type Options struct {
	// Runner executes package manager commands.
	Runner Runner

	// Diagnostics classifies package manager output.
	Diagnostics Diagnostics

	// Commands assembles the package manager command lines.
	Commands CommandSet

	// Printer emits progress tags; defaults to stdout.
	Printer *Printer

	// Logger is the structured logger; defaults to a stderr logger.
	Logger *telemetry.Logger

	// Metrics collects resolution counters; defaults to disabled.
	Metrics *telemetry.Metrics

	// Recorder receives run history notifications; nil disables recording.
	Recorder Recorder

	// Report writes the log file after each iteration; nil disables it.
	Report ReportSink

	// RemoveAttempts caps uninstall retries; defaults to 2.
	RemoveAttempts int
}

// Engine is the conflict resolution engine. It drives the package
// manager through a Runner, classifies its output through Diagnostics
// and mutates a per-run ResolverContext. Engines are single-threaded;
// one child subprocess runs at a time and the engine always waits on it.
type Engine struct {
	runner   Runner
	diag     Diagnostics
	cmds     CommandSet
	printer  *Printer
	log      *telemetry.Logger
	metrics  *telemetry.Metrics
	recorder Recorder
	sink     ReportSink

	rc             *ResolverContext
	removeAttempts int
}

// New creates an engine with a fresh resolver context.
func New(opts Options) (*Engine, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if opts.Diagnostics == nil {
		return nil, fmt.Errorf("diagnostics is required")
	}
	if opts.Commands == nil {
		return nil, fmt.Errorf("command set is required")
	}

	printer := opts.Printer
	if printer == nil {
		printer = NewPrinter(nil)
	}

	log := opts.Logger
	if log == nil {
		var err error
		log, err = telemetry.NewLogger(telemetry.LoggingConfig{Level: "info", Output: "stderr"})
		if err != nil {
			return nil, fmt.Errorf("failed to create default logger: %w", err)
		}
	}

	metrics := opts.Metrics
	if metrics == nil {
		var err error
		metrics, err = telemetry.NewMetrics(telemetry.MetricsConfig{Enabled: false})
		if err != nil {
			return nil, fmt.Errorf("failed to create disabled metrics: %w", err)
		}
	}

	attempts := opts.RemoveAttempts
	if attempts <= 0 {
		attempts = defaultRemoveAttempts
	}

	return &Engine{
		runner:         opts.Runner,
		diag:           opts.Diagnostics,
		cmds:           opts.Commands,
		printer:        printer,
		log:            log.NewComponentLogger("engine"),
		metrics:        metrics,
		recorder:       opts.Recorder,
		sink:           opts.Report,
		rc:             NewResolverContext(),
		removeAttempts: attempts,
	}, nil
}

// Context exposes the resolver context, primarily for tests and for the
// report writer wiring.
func (e *Engine) Context() *ResolverContext {
	return e.rc
}

// run executes a command, logging and swallowing spawn failures: the
// engine treats unobtainable output as empty output and keeps going.
func (e *Engine) run(ctx context.Context, command string) string {
	e.metrics.IncCommandsExecuted()
	output, err := e.runner.Run(ctx, command)
	if err != nil {
		e.log.WithError(err).Error("command execution failed")
		return ""
	}
	return output
}

// record forwards an event to the recorder when one is configured.
func (e *Engine) record(ctx context.Context, level, message string) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Event(ctx, level, message); err != nil {
		e.log.WithError(err).Warn("failed to record event")
	}
}

// writeReport flushes the journal to the report sink.
func (e *Engine) writeReport() {
	if e.sink == nil {
		return
	}
	if err := e.sink.Write(e.rc.Journal()); err != nil {
		e.log.WithError(err).Warn("failed to write report")
	}
}
