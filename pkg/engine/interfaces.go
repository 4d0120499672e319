package engine

import "context"

// Runner executes a shell command and returns its combined output.
// Implementations stream the child's output to the terminal while
// capturing it; classification works on the captured text because many
// remediable conditions share the same exit code.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// Diagnosis is the result of classifying package manager output.
type Diagnosis struct {
	// Issue is the winning classification, IssueUnknown if none matched.
	Issue IssueType

	// Matches holds every occurrence of the winning pattern in the
	// output. Each entry is the submatch slice for one occurrence,
	// index 0 being the full match.
	Matches [][]string
}

// Diagnostics classifies the human-readable output of a package manager
// against an ordered pattern table. The order is significant: several
// patterns overlap, and the first match wins, so the chosen issue type
// is a pure function of the output.
type Diagnostics interface {
	// Classify tests the output against the ordered pattern table.
	Classify(output string) Diagnosis

	// PackageMissing reports whether the output says a named package
	// was not found in the repositories.
	PackageMissing(output string) bool

	// TargetNotFound reports whether the output contains a
	// "target not found" diagnostic.
	TargetNotFound(output string) bool

	// RequiredByList parses the "Required By" field of a local package
	// query. ok is false when the field is absent; a present field with
	// the literal None value yields an empty list.
	RequiredByList(output string) (dependents []string, ok bool)
}

// CommandSet assembles the package manager command lines the engine
// issues. Implementations decide binary name, sudo usage and flags.
type CommandSet interface {
	// Upgrade is the full system upgrade used for --fix cycles.
	Upgrade() string

	// Install drives resolution for a single package, auto-confirming
	// interactive prompts and folding stderr into stdout.
	Install(pkg string) string

	// Remove uninstalls a single package without confirmation.
	Remove(pkg string) string

	// QueryLocal queries the locally installed package database.
	QueryLocal(pkg string) string

	// QueryRepo queries the configured repositories.
	QueryRepo(pkg string) string

	// Reinstall installs the given packages in one invocation.
	Reinstall(pkgs []string) string
}

// Recorder receives run lifecycle notifications. Implementations append
// them to a history store; a nil Recorder on the Engine disables
// recording entirely.
type Recorder interface {
	// RunStarted is called once when the driver loop begins.
	RunStarted(ctx context.Context, target string) error

	// Event is called for each resolution event.
	Event(ctx context.Context, level, message string) error

	// RunFinished is called once with the final status.
	RunFinished(ctx context.Context, status ProcedureStatus, runErr error) error
}
