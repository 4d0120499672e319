package engine

import (
	"context"
	"strings"
)

// Run is the top-level convergence loop. target is a package name or
// FixTarget. Each iteration reinstalls the packages removed by the
// previous one, inspects the system, then flushes the report; the loop
// stops once the package manager reports nothing to do or the engine
// hits an unrecoverable error.
//
// The first iteration inspects the requested target; later iterations
// always run a full fix cycle, because a single pass may itself remove
// new packages that the next pass must reinstall and verify.
func (e *Engine) Run(ctx context.Context, target string) (ProcedureStatus, error) {
	if e.recorder != nil {
		if err := e.recorder.RunStarted(ctx, target); err != nil {
			e.log.WithError(err).Warn("failed to record run start")
		}
	}

	e.printer.Linef("\nRunning the package manager to see packages in conflict...")

	var status ProcedureStatus
	first := true
	for {
		if len(e.rc.Pending()) > 0 {
			e.reinstallPending(ctx)
		}

		inspectTarget := FixTarget
		if first && target != "" {
			inspectTarget = target
		}
		first = false

		var err error
		status, err = e.Inspect(ctx, inspectTarget)
		e.metrics.IncDriverIterations()
		if err != nil {
			if e.recorder != nil {
				_ = e.recorder.RunFinished(ctx, StatusError, err)
			}
			e.metrics.IncRunsCompleted(string(StatusError))
			return StatusError, err
		}

		e.writeReport()

		if status == StatusNothingToDo || status == StatusError {
			break
		}
	}

	e.finishBanner()

	if e.recorder != nil {
		if err := e.recorder.RunFinished(ctx, status, nil); err != nil {
			e.log.WithError(err).Warn("failed to record run finish")
		}
	}
	e.metrics.IncRunsCompleted(string(status))
	return status, nil
}

// reinstallPending puts removed packages back on the system. Packages
// the repositories no longer carry are dropped from the pending set and
// recorded as not reinstalled; the rest go back in a single install.
// Reinstall failures surface on the terminal but do not abort the run.
func (e *Engine) reinstallPending(ctx context.Context) {
	e.printer.Linef("\nReinstalling removed packages...")

	for _, pkg := range append([]string(nil), e.rc.Pending()...) {
		output := e.run(ctx, e.cmds.QueryRepo(pkg))
		if e.diag.PackageMissing(output) {
			e.printer.Tagf("PACKAGE NOT FOUND", "%s was not found in the repositories. Skipping reinstall.", pkg)
			e.rc.DropPending(pkg)
			e.rc.Record(EventRemovedNotReinstalled, pkg)
			e.rc.Record(EventNotFoundInRepos, pkg)
		}
	}

	pending := e.rc.Pending()
	if len(pending) > 0 {
		e.run(ctx, e.cmds.Reinstall(pending))
		for _, pkg := range pending {
			e.rc.Record(EventRemovedReinstalled, pkg)
			e.metrics.IncPackagesReinstalled()
		}
		e.record(ctx, "info", "reinstalled: "+strings.Join(pending, " "))
	}
	e.rc.ClearPending()
}

// finishBanner prints the closing advice once the system converged.
func (e *Engine) finishBanner() {
	e.printer.Tagf("FINISHED", "All conflicts and required packages processed.")
	e.printer.Linef("If any package was removed, it has been reinstalled.")
	e.printer.Linef("You may want to run a full system upgrade to ensure the system is up to date.")
	e.printer.Linef("Execute the program again if there are still conflicts.")
}
