package engine

// EventKind names one of the report groups written after each driver
// iteration. The six kinds partition observed outcomes.
type EventKind string

const (
	// EventRemovedReinstalled records a package that was removed to
	// break a conflict and reinstalled on a later iteration.
	EventRemovedReinstalled EventKind = "removed_reinstalled"

	// EventRemovedNotReinstalled records a removed package that could
	// not be reinstalled because no repository carries it.
	EventRemovedNotReinstalled EventKind = "removed_not_reinstalled"

	// EventConflictsResolved records both sides of a resolved conflict.
	EventConflictsResolved EventKind = "conflicts_resolved"

	// EventRequiredByResolved records both sides of a resolved
	// required-by relation.
	EventRequiredByResolved EventKind = "requiredby_resolved"

	// EventNotFoundInRepos records a package absent from all repositories.
	EventNotFoundInRepos EventKind = "not_found_in_repos"

	// EventDependencyUnsatisfiedRemoved records a package removed
	// because its dependency could not be satisfied.
	EventDependencyUnsatisfiedRemoved EventKind = "dependency_unsatisfied_removed"
)

// Kinds lists the report groups in their fixed output order.
var Kinds = []EventKind{
	EventRemovedReinstalled,
	EventRemovedNotReinstalled,
	EventConflictsResolved,
	EventRequiredByResolved,
	EventNotFoundInRepos,
	EventDependencyUnsatisfiedRemoved,
}

// Journal accumulates package names per event kind, preserving first
// insertion order and dropping duplicates within a kind.
type Journal struct {
	groups map[EventKind][]string
	seen   map[EventKind]map[string]struct{}
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{
		groups: make(map[EventKind][]string),
		seen:   make(map[EventKind]map[string]struct{}),
	}
}

// Record appends a package name to the given group.
func (j *Journal) Record(kind EventKind, name string) {
	if j.seen[kind] == nil {
		j.seen[kind] = make(map[string]struct{})
	}
	if _, dup := j.seen[kind][name]; dup {
		return
	}
	j.seen[kind][name] = struct{}{}
	j.groups[kind] = append(j.groups[kind], name)
}

// Group returns the names recorded under the given kind, in order.
func (j *Journal) Group(kind EventKind) []string {
	return j.groups[kind]
}

// ResolverContext bundles every piece of mutable state the engine
// threads through a resolution: the per-cycle processed set, the
// removed-pending set, the removal-escape state and the report journal.
// A fresh context per run keeps resolutions independent and testable;
// there are no ambient singletons.
type ResolverContext struct {
	processed map[string]struct{}

	// pending preserves removal order so the reinstall command lists
	// packages in the order they were taken off the system.
	pending []string

	// removalTarget is the single package whose removal the engine is
	// currently escaping the recursion to accomplish. Non-empty exactly
	// while removing is true.
	removalTarget string
	removing      bool

	journal *Journal
}

// NewResolverContext returns an empty resolver context.
func NewResolverContext() *ResolverContext {
	return &ResolverContext{
		processed: make(map[string]struct{}),
		journal:   NewJournal(),
	}
}

// MarkProcessed inserts a package into the current cycle's processed set.
func (rc *ResolverContext) MarkProcessed(name string) {
	rc.processed[name] = struct{}{}
}

// Processed reports whether the package was already visited this cycle.
func (rc *ResolverContext) Processed(name string) bool {
	_, ok := rc.processed[name]
	return ok
}

// ForgetProcessed removes a single package from the processed set.
func (rc *ResolverContext) ForgetProcessed(name string) {
	delete(rc.processed, name)
}

// ResetProcessed clears the processed set for a new cycle.
func (rc *ResolverContext) ResetProcessed() {
	clear(rc.processed)
}

// ProcessedCount returns the size of the processed set.
func (rc *ResolverContext) ProcessedCount() int {
	return len(rc.processed)
}

// AddPending marks a package for reinstall on the next driver iteration.
func (rc *ResolverContext) AddPending(name string) {
	if rc.IsPending(name) {
		return
	}
	rc.pending = append(rc.pending, name)
}

// IsPending reports whether the package awaits reinstall.
func (rc *ResolverContext) IsPending(name string) bool {
	for _, p := range rc.pending {
		if p == name {
			return true
		}
	}
	return false
}

// DropPending removes a package from the reinstall set, for packages
// that must stay off the system (unsatisfiable dependency removals and
// packages gone from the repositories).
func (rc *ResolverContext) DropPending(name string) {
	for i, p := range rc.pending {
		if p == name {
			rc.pending = append(rc.pending[:i], rc.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the packages awaiting reinstall, in removal order.
func (rc *ResolverContext) Pending() []string {
	return rc.pending
}

// ClearPending empties the reinstall set.
func (rc *ResolverContext) ClearPending() {
	rc.pending = nil
}

// BeginRemoval enters escape mode for the named package.
func (rc *ResolverContext) BeginRemoval(name string) {
	rc.removalTarget = name
	rc.removing = true
}

// EndRemoval leaves escape mode.
func (rc *ResolverContext) EndRemoval() {
	rc.removalTarget = ""
	rc.removing = false
}

// Removing reports whether a removal escape is in progress.
func (rc *ResolverContext) Removing() bool {
	return rc.removing
}

// RemovalTarget returns the package the current escape is removing.
func (rc *ResolverContext) RemovalTarget() string {
	return rc.removalTarget
}

// Record appends a package name to the journal group for the kind.
func (rc *ResolverContext) Record(kind EventKind, name string) {
	rc.journal.Record(kind, name)
}

// Journal exposes the accumulated report groups.
func (rc *ResolverContext) Journal() *Journal {
	return rc.journal
}
