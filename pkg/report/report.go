// Package report renders the resolution journal to the plain-text log
// file written after each driver iteration. The engine feeds it through
// the ReportSink interface; the layout here is fixed so operators can
// diff files between runs.
package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pacfix/pacfix/pkg/engine"
)

// DefaultPath is where the log file is written.
const DefaultPath = "fixConflicts.log"

// sectionLabels maps each journal group to its section heading, in the
// fixed output order of engine.Kinds.
var sectionLabels = map[engine.EventKind]string{
	engine.EventRemovedReinstalled:           "Removed and reinstalled",
	engine.EventRemovedNotReinstalled:        "Removed, not reinstalled",
	engine.EventConflictsResolved:            "Conflicts resolved",
	engine.EventRequiredByResolved:           "Required-by chains resolved",
	engine.EventNotFoundInRepos:              "Not found in repositories",
	engine.EventDependencyUnsatisfiedRemoved: "Removed for unsatisfiable dependency",
}

// Writer writes the journal to a fixed path, replacing the previous
// snapshot so the file always reflects the run so far.
type Writer struct {
	// Path is the log file location, DefaultPath when empty.
	Path string

	// RunID identifies the run in the header.
	RunID string

	// Now supplies the header date; time.Now when nil.
	Now func() time.Time
}

// Write implements engine.ReportSink.
func (w *Writer) Write(j *engine.Journal) error {
	path := w.Path
	if path == "" {
		path = DefaultPath
	}
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	if err := os.WriteFile(path, Render(j, now, w.RunID), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Render produces the log file contents: a dated header followed by the
// six labeled groups in fixed order, empty groups printed as (none).
func Render(j *engine.Journal, now time.Time, runID string) []byte {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "pacfix conflict resolution log")
	fmt.Fprintf(&buf, "Date: %s\n", now.Format(time.RFC3339))
	if runID != "" {
		fmt.Fprintf(&buf, "Run: %s\n", runID)
	}

	for _, kind := range engine.Kinds {
		fmt.Fprintf(&buf, "\n%s:\n", sectionLabels[kind])
		group := j.Group(kind)
		if len(group) == 0 {
			fmt.Fprintln(&buf, "(none)")
			continue
		}
		for _, name := range group {
			fmt.Fprintf(&buf, "  %s\n", name)
		}
	}

	return buf.Bytes()
}
