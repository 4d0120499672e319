package engine

import "context"

// Inspect runs one inspect-and-resolve pass for the target, which is
// either a package name or FixTarget.
//
// Cycle-break protocol: a FixTarget pass starts a fresh cycle and
// clears the processed set. Re-entry of a name already processed in
// this cycle means the recursion has walked back onto its own stack;
// the pass then flags the name for removal and returns the escape
// signal without touching the package manager.
func (e *Engine) Inspect(ctx context.Context, target string) (ProcedureStatus, error) {
	switch {
	case target == FixTarget:
		e.rc.ResetProcessed()
	case e.rc.Processed(target):
		e.printer.Tagf("PKGE(S) REQUIRE(S) TO BE REMOVED", "%s", target)
		e.log.WithField("package", target).Debug("cycle detected, escaping to remove")
		e.rc.BeginRemoval(target)
		return StatusPackagesRequiredToRemove, nil
	default:
		e.rc.MarkProcessed(target)
	}

	var command string
	if target == FixTarget {
		e.printer.Tagf("RESOLVING ALL CONFLICTS AUTOMATICALLY", "")
		command = e.cmds.Upgrade()
	} else {
		e.printer.Tagf("RESOLVING FOR", "%s", target)
		command = e.cmds.Install(target)
	}

	output := e.run(ctx, command)
	if output == "" {
		e.log.Warn("empty output")
		e.printer.Tagf("DONE", "")
		e.rc.ResetProcessed()
		return StatusDone, nil
	}

	d := e.diag.Classify(output)
	switch d.Issue {
	case IssueConflict:
		if err := e.resolve(ctx, d); err != nil {
			return StatusError, err
		}
		e.rc.ResetProcessed()
		return StatusConflictsResolved, nil

	case IssueDependencyUnsatisfy:
		if err := e.resolve(ctx, d); err != nil {
			return StatusError, err
		}
		e.rc.ResetProcessed()
		return StatusRequiredByResolved, nil

	case IssueRequiredBy:
		if err := e.resolve(ctx, d); err != nil {
			return StatusError, err
		}
		if e.rc.Removing() {
			// Escape in progress: keep the processed set intact so the
			// frames above can find the packages they own.
			return StatusContinueProcessing, nil
		}
		e.rc.ResetProcessed()
		return StatusRequiredByResolved, nil

	case IssueTargetNotFound:
		if err := e.resolve(ctx, d); err != nil {
			return StatusError, err
		}
		e.rc.ResetProcessed()
		return StatusTargetNotFoundResolved, nil

	case IssueNothingToFix:
		e.printer.Tagf("DONE", "")
		e.rc.ResetProcessed()
		return StatusNothingToDo, nil

	case IssueUpToDate:
		e.printer.Tagf("UP TO DATE", "%s is already installed and up to date.", target)
		e.rc.ResetProcessed()
		return StatusInstalledPackage, nil

	default:
		e.printer.Tagf("DONE", "")
		e.rc.ResetProcessed()
		return StatusDone, nil
	}
}
