package pacman

import (
	"regexp"
	"strings"

	"github.com/pacfix/pacfix/pkg/engine"
)

var (
	rxConflict       = regexp.MustCompile(`(\S+)\s+and\s+(\S+) are in conflict`)
	rxRequiredBy     = regexp.MustCompile(`(\S+)\s+required by\s+(\S+)`)
	rxDepUnsatisfy   = regexp.MustCompile(`unable to satisfy dependency '(\S+)' required by\s+(\S+)`)
	rxTargetNotFound = regexp.MustCompile(`\s*target not found:\s+(\S+)`)
	rxNothingToFix   = regexp.MustCompile(`there is nothing to do`)
	rxUpToDate       = regexp.MustCompile(`\s*is up to date\s*-+\s*reinstalling`)
	rxWasNotFound    = regexp.MustCompile(`package '(\S+)' was not found`)
	rxRequiredByLine = regexp.MustCompile(`Required By\s+:\s+(.+)`)
)

// matcher is one entry of the ordered classification table. prepare, if
// set, transforms the output before matching.
type matcher struct {
	issue   engine.IssueType
	re      *regexp.Regexp
	prepare func(string) string
}

// The order is significant: several patterns overlap. An unsatisfiable
// dependency line also matches the plain required-by pattern, so it
// must be tested first; the conflict matcher must not fire on the
// interactive [y/N] prompt echo, handled by stripping prompt lines
// before matching (RE2 has no lookahead).
var table = []matcher{
	{issue: engine.IssueConflict, re: rxConflict, prepare: stripPromptLines},
	{issue: engine.IssueDependencyUnsatisfy, re: rxDepUnsatisfy},
	{issue: engine.IssueRequiredBy, re: rxRequiredBy},
	{issue: engine.IssueTargetNotFound, re: rxTargetNotFound},
	{issue: engine.IssueNothingToFix, re: rxNothingToFix},
	{issue: engine.IssueUpToDate, re: rxUpToDate},
}

// Diagnostics classifies pacman's human-readable diagnostics.
type Diagnostics struct{}

// NewDiagnostics returns the pacman diagnostics classifier.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Classify tests the output against the ordered pattern table; the
// first matching pattern wins and all of its occurrences are returned.
func (d *Diagnostics) Classify(output string) engine.Diagnosis {
	for _, m := range table {
		text := output
		if m.prepare != nil {
			text = m.prepare(text)
		}
		if matches := m.re.FindAllStringSubmatch(text, -1); matches != nil {
			return engine.Diagnosis{Issue: m.issue, Matches: matches}
		}
	}
	return engine.Diagnosis{Issue: engine.IssueUnknown}
}

// PackageMissing reports whether the output says a package was not
// found, as emitted by -Qi and -Si lookups.
func (d *Diagnostics) PackageMissing(output string) bool {
	return rxWasNotFound.MatchString(output)
}

// TargetNotFound reports whether the output carries a target-not-found
// diagnostic.
func (d *Diagnostics) TargetNotFound(output string) bool {
	return rxTargetNotFound.MatchString(output)
}

// RequiredByList parses the Required By field of a -Qi reply. The
// literal None value yields an empty list.
func (d *Diagnostics) RequiredByList(output string) ([]string, bool) {
	m := rxRequiredByLine.FindStringSubmatch(output)
	if m == nil {
		return nil, false
	}
	value := strings.TrimSpace(m[1])
	if value == "None" {
		return nil, true
	}
	return strings.Fields(value), true
}

// stripPromptLines drops interactive prompt echoes so the conflict
// pattern never fires on the prompt itself.
func stripPromptLines(output string) string {
	lines := strings.Split(output, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, "[y/N]") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
