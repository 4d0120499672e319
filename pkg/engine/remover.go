package engine

import "context"

// Remove uninstalls a package together with its reverse dependencies,
// bottom-up: the local database is queried for the Required By field,
// dependents are removed first, then the package itself. Every package
// removed directly is added to the removed-pending set so the driver
// reinstalls it on the next iteration.
func (e *Engine) Remove(ctx context.Context, pkg string) (RemovalResult, error) {
	visited := make(map[string]struct{})
	return e.remove(ctx, pkg, visited)
}

func (e *Engine) remove(ctx context.Context, pkg string, visited map[string]struct{}) (RemovalResult, error) {
	// A Required By entry can name a package already on this removal
	// walk (mutual dependents, self-loops); revisiting would recurse
	// forever.
	if _, seen := visited[pkg]; seen {
		return RemovalOK, nil
	}
	visited[pkg] = struct{}{}

	e.printer.Tagf("CHECKING DEPENDENCIES FOR", "%s", pkg)

	output := e.run(ctx, e.cmds.QueryLocal(pkg))
	if e.diag.PackageMissing(output) {
		e.printer.Tagf("PACKAGE NOT INSTALLED", "%s was not found in the system.", pkg)
		return RemovalNotInstalled, nil
	}

	dependents, ok := e.diag.RequiredByList(output)
	if ok {
		// A package listing itself as its own dependent would walk in
		// place; treat it as a leaf.
		kept := dependents[:0]
		for _, d := range dependents {
			if d != pkg {
				kept = append(kept, d)
			}
		}
		dependents = kept
	}
	if !ok || len(dependents) == 0 {
		// No dependents, remove directly. An absent Required By field
		// is treated the same as a None value.
		return e.removeLeaf(ctx, pkg)
	}

	// Dependents first, the package itself last.
	for i := len(dependents) - 1; i >= 0; i-- {
		e.printer.Linef("**** Marking package for removal: %s", dependents[i])
		res, err := e.remove(ctx, dependents[i], visited)
		if err != nil {
			return res, err
		}
		if res == RemovalError {
			return RemovalError, nil
		}
	}

	// With the dependents gone the package itself is a leaf.
	res, err := e.removeLeaf(ctx, pkg)
	if err != nil || res != RemovalOK {
		return res, err
	}

	e.printer.Tagf("PACKAGE REMOVED", "%s and its dependents were removed successfully.", pkg)
	return RemovalOK, nil
}

// removeLeaf uninstalls a single package with no remaining dependents,
// retrying the uninstall command to ride out transient database lock
// failures. The removal has settled once the package manager reports
// the target as not found.
func (e *Engine) removeLeaf(ctx context.Context, pkg string) (RemovalResult, error) {
	e.printer.Tagf("REMOVING", "No packages depending on: %s", pkg)
	e.rc.AddPending(pkg)

	removed := false
	for attempt := 0; attempt < e.removeAttempts; attempt++ {
		output := e.run(ctx, e.cmds.Remove(pkg))
		if e.diag.TargetNotFound(output) {
			removed = true
			break
		}
	}

	if !removed {
		return RemovalError, nil
	}

	e.metrics.IncPackagesRemoved()
	return RemovalOK, nil
}
