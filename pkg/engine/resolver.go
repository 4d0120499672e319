package engine

import (
	"context"
	"fmt"
)

// requiredByPasses bounds how often a single required-by match is
// re-inspected before giving up on it for this cycle.
const requiredByPasses = 2

// resolve dispatches every occurrence of the classified issue to its
// remediation. A single output frequently carries many matches; each is
// handled in order. The only status surfaced to callers through the
// resolver is the removal escape, which aborts the match loop so the
// recursion can unwind.
func (e *Engine) resolve(ctx context.Context, d Diagnosis) error {
	for _, m := range d.Matches {
		switch d.Issue {
		case IssueConflict:
			if err := e.resolveConflict(ctx, m[1], m[2]); err != nil {
				return err
			}

		case IssueRequiredBy:
			escaped, err := e.resolveRequiredBy(ctx, m[1], m[2])
			if err != nil {
				return err
			}
			if escaped {
				return nil
			}

		case IssueDependencyUnsatisfy:
			if err := e.resolveDependencyUnsatisfied(ctx, m[1], m[2]); err != nil {
				return err
			}

		case IssueTargetNotFound:
			if err := e.resolveTargetNotFound(ctx, m[1]); err != nil {
				return err
			}

		default:
			e.printer.Tagf("DONE", "")
		}
	}
	return nil
}

// resolveConflict drives resolution for the first of two conflicting
// packages. The second is the side the package manager would install in
// its place, so only the first needs to be walked.
func (e *Engine) resolveConflict(ctx context.Context, pkgA, pkgB string) error {
	e.printer.Tagf("CONFLICT BETWEEN", "%s and %s", pkgA, pkgB)
	e.record(ctx, "info", fmt.Sprintf("conflict between %s and %s", pkgA, pkgB))

	for {
		status, err := e.Inspect(ctx, pkgA)
		if err != nil {
			return err
		}
		if status == StatusDone || status == StatusInstalledPackage ||
			status == StatusTargetNotFoundResolved {
			break
		}
	}

	e.rc.Record(EventConflictsResolved, pkgA)
	e.rc.Record(EventConflictsResolved, pkgB)
	e.metrics.IncConflictsResolved()
	return nil
}

// resolveRequiredBy walks one edge of a required-by chain. The returned
// escaped flag is true when a deeper frame signalled the removal escape
// and this frame must unwind without finishing its passes.
//
// When the removal flag is up and the dependent is in the processed
// set, this frame is the one whose inspection first inserted it: the
// dependent is removed here, on unwind, dependents-first.
func (e *Engine) resolveRequiredBy(ctx context.Context, depended, dependent string) (bool, error) {
	e.printer.Tagf("REQUIRED BY", "%s required by %s", depended, dependent)
	e.record(ctx, "info", fmt.Sprintf("%s required by %s", depended, dependent))

	if e.rc.IsPending(dependent) {
		// Already off the system awaiting reinstall; nothing to walk.
		e.rc.Record(EventRequiredByResolved, depended)
		e.rc.Record(EventRequiredByResolved, dependent)
		return false, nil
	}

	var status ProcedureStatus
	for pass := 0; pass < requiredByPasses; pass++ {
		var err error
		status, err = e.Inspect(ctx, dependent)
		if err != nil {
			return false, err
		}

		if status == StatusPackagesRequiredToRemove {
			return true, nil
		}

		if e.rc.Removing() && e.rc.Processed(dependent) {
			res, err := e.Remove(ctx, dependent)
			if err != nil {
				return false, err
			}
			if res == RemovalError {
				e.printer.Tagf("FAILED REMOVING PACKAGE", "%s", dependent)
				return false, NewPermanentError("failed to remove package", nil).
					WithPackage(dependent).WithOperation("required_by")
			}
			e.rc.ForgetProcessed(dependent)
			status = StatusDone

			if dependent == e.rc.RemovalTarget() {
				e.rc.EndRemoval()
			}
		} else if e.rc.Removing() {
			e.printer.Tagf("UNABLE TO REMOVE", "%s", dependent)
		}

		if status == StatusDone || status == StatusInstalledPackage ||
			status == StatusTargetNotFoundResolved {
			break
		}
	}

	e.rc.Record(EventRequiredByResolved, depended)
	e.rc.Record(EventRequiredByResolved, dependent)
	return false, nil
}

// resolveDependencyUnsatisfied removes the package whose dependency can
// no longer be satisfied. The package stays off the system: it is
// erased from the reinstall set, since reinstalling would only
// reintroduce the unsatisfiable dependency.
func (e *Engine) resolveDependencyUnsatisfied(ctx context.Context, depended, dependent string) error {
	e.printer.Tagf("UNSATISFIED DEPENDENCY", "%s required by %s", depended, dependent)
	e.record(ctx, "warning", fmt.Sprintf("dependency %s of %s cannot be satisfied", depended, dependent))

	res, err := e.Remove(ctx, dependent)
	if err != nil {
		return err
	}
	if res == RemovalError {
		e.printer.Tagf("FAILED REMOVING PACKAGE", "%s", dependent)
		return NewPermanentError("failed to remove package", nil).
			WithPackage(dependent).WithOperation("dependency_unsatisfy")
	}

	e.rc.DropPending(dependent)
	e.rc.Record(EventDependencyUnsatisfiedRemoved, dependent)
	return nil
}

// resolveTargetNotFound uninstalls a package that no repository carries
// anymore, retrying until the removal settles.
func (e *Engine) resolveTargetNotFound(ctx context.Context, pkg string) error {
	e.printer.Tagf("TARGET NOT FOUND", "%s - uninstalling...", pkg)
	e.record(ctx, "warning", fmt.Sprintf("target not found: %s", pkg))

	for {
		res, err := e.Remove(ctx, pkg)
		if err != nil {
			return err
		}
		if res == RemovalOK || res == RemovalNotInstalled {
			break
		}
	}

	e.rc.Record(EventNotFoundInRepos, pkg)
	return nil
}
