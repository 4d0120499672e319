package engine_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacfix/pacfix/pkg/engine"
	"github.com/pacfix/pacfix/pkg/pacman"
	"github.com/pacfix/pacfix/pkg/telemetry"
)

// fakeRunner replays scripted outputs per command, consuming one queued
// output per invocation.
type fakeRunner struct {
	t       *testing.T
	outputs map[string][]string
	calls   []string
}

func newFakeRunner(t *testing.T) *fakeRunner {
	return &fakeRunner{t: t, outputs: make(map[string][]string)}
}

func (f *fakeRunner) script(command string, outputs ...string) {
	f.outputs[command] = append(f.outputs[command], outputs...)
}

func (f *fakeRunner) Run(_ context.Context, command string) (string, error) {
	f.calls = append(f.calls, command)
	queue := f.outputs[command]
	if len(queue) == 0 {
		f.t.Fatalf("unexpected command: %s", command)
	}
	out := queue[0]
	f.outputs[command] = queue[1:]
	return out, nil
}

var cmds = pacman.Commands{}

func newTestEngine(t *testing.T, runner engine.Runner) *engine.Engine {
	t.Helper()
	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{Level: "error"})
	require.NoError(t, err)

	eng, err := engine.New(engine.Options{
		Runner:      runner,
		Diagnostics: pacman.NewDiagnostics(),
		Commands:    cmds,
		Printer:     engine.NewPrinter(io.Discard),
		Logger:      logger,
	})
	require.NoError(t, err)
	return eng
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := engine.New(engine.Options{})
	require.Error(t, err)

	_, err = engine.New(engine.Options{Runner: newFakeRunner(t)})
	require.Error(t, err)

	_, err = engine.New(engine.Options{Runner: newFakeRunner(t), Diagnostics: pacman.NewDiagnostics()})
	require.Error(t, err)
}

func TestRunUpToDateThenQuiescent(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"warning: everything is up to date -- reinstalling foo",
		"there is nothing to do",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), engine.FixTarget)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNothingToDo, status)
	assert.Empty(t, eng.Context().Pending())
	assert.Len(t, runner.calls, 2)
}

func TestRunTwoWayConflict(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"pkgA and pkgB are in conflict",
		"there is nothing to do",
	)
	runner.script(cmds.Install("pkgA"),
		"pkgA is up to date -- reinstalling",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), engine.FixTarget)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNothingToDo, status)

	resolved := eng.Context().Journal().Group(engine.EventConflictsResolved)
	assert.Equal(t, []string{"pkgA", "pkgB"}, resolved)
}

func TestRunRequiredByChainWithEscape(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"libX required by toolY",
		"there is nothing to do",
	)
	runner.script(cmds.Install("toolY"),
		"toolY required by suiteZ",
	)
	runner.script(cmds.Install("suiteZ"),
		"libW required by toolY",
	)
	runner.script(cmds.QueryLocal("suiteZ"),
		"Required By     : None",
	)
	runner.script(cmds.Remove("suiteZ"),
		"removing suiteZ...",
		"error: target not found: suiteZ",
	)
	runner.script(cmds.QueryLocal("toolY"),
		"Required By     : None",
	)
	runner.script(cmds.Remove("toolY"),
		"removing toolY...",
		"error: target not found: toolY",
	)
	runner.script(cmds.QueryRepo("suiteZ"), "Repository : extra")
	runner.script(cmds.QueryRepo("toolY"), "Repository : extra")
	runner.script(cmds.Reinstall([]string{"suiteZ", "toolY"}), "installing...")

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), engine.FixTarget)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNothingToDo, status)

	// Dependents were removed bottom-up and reinstalled in removal order.
	reinstalled := eng.Context().Journal().Group(engine.EventRemovedReinstalled)
	assert.Equal(t, []string{"suiteZ", "toolY"}, reinstalled)
	assert.Empty(t, eng.Context().Pending())

	requiredBy := eng.Context().Journal().Group(engine.EventRequiredByResolved)
	assert.Contains(t, requiredBy, "toolY")
	assert.Contains(t, requiredBy, "suiteZ")
	assert.Contains(t, requiredBy, "libX")

	// The escape settled: the removal flag is down again.
	assert.False(t, eng.Context().Removing())
	assert.Empty(t, eng.Context().RemovalTarget())
}

func TestRunTargetNotFoundDroppedFromReinstall(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"error: target not found: obsoletePkg",
		"there is nothing to do",
	)
	runner.script(cmds.QueryLocal("obsoletePkg"),
		"Required By     : None",
	)
	runner.script(cmds.Remove("obsoletePkg"),
		"removing obsoletePkg...",
		"error: target not found: obsoletePkg",
	)
	runner.script(cmds.QueryRepo("obsoletePkg"),
		"error: package 'obsoletePkg' was not found",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), engine.FixTarget)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNothingToDo, status)

	j := eng.Context().Journal()
	assert.Equal(t, []string{"obsoletePkg"}, j.Group(engine.EventRemovedNotReinstalled))
	assert.Equal(t, []string{"obsoletePkg"}, j.Group(engine.EventNotFoundInRepos))
	assert.Empty(t, j.Group(engine.EventRemovedReinstalled))
	assert.Empty(t, eng.Context().Pending())
}

func TestRunUnsatisfiableDependencyStaysRemoved(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"error: unable to satisfy dependency 'libQ' required by appR",
		"there is nothing to do",
	)
	runner.script(cmds.QueryLocal("appR"),
		"Required By     : None",
	)
	runner.script(cmds.Remove("appR"),
		"removing appR...",
		"error: target not found: appR",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), engine.FixTarget)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNothingToDo, status)

	j := eng.Context().Journal()
	assert.Equal(t, []string{"appR"}, j.Group(engine.EventDependencyUnsatisfiedRemoved))
	assert.Empty(t, j.Group(engine.EventRemovedReinstalled))
	assert.Empty(t, eng.Context().Pending())
}

func TestRunFatalRemovalError(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"libX required by toolY",
	)
	runner.script(cmds.Install("toolY"),
		"foo required by toolY",
	)
	runner.script(cmds.QueryLocal("toolY"),
		"Required By     : None",
	)
	runner.script(cmds.Remove("toolY"),
		"error: could not lock database",
		"error: could not lock database",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), engine.FixTarget)
	require.Error(t, err)
	assert.Equal(t, engine.StatusError, status)
	assert.True(t, engine.IsPermanent(err))
}

func TestRunEmptyOutputIsQuiescentForTheCycle(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"",
		"there is nothing to do",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), engine.FixTarget)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNothingToDo, status)
}

func TestRunStartsFromNamedPackage(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Install("foo"),
		"foo is up to date -- reinstalling",
	)
	runner.script(cmds.Upgrade(),
		"there is nothing to do",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Run(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusNothingToDo, status)
	assert.Equal(t, cmds.Install("foo"), runner.calls[0])
}

func TestRunIdempotentOnQuiescentSystem(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		"there is nothing to do",
		"there is nothing to do",
	)

	eng := newTestEngine(t, runner)
	for i := 0; i < 2; i++ {
		status, err := eng.Run(context.Background(), engine.FixTarget)
		require.NoError(t, err)
		assert.Equal(t, engine.StatusNothingToDo, status)
	}
	// One upgrade probe per run, nothing else.
	assert.Len(t, runner.calls, 2)
}

func TestInspectPromptEchoIsNotAConflict(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Upgrade(),
		":: pkgA and pkgB are in conflict. Remove pkgB? [y/N]",
	)

	eng := newTestEngine(t, runner)
	status, err := eng.Inspect(context.Background(), engine.FixTarget)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusDone, status)
}

func TestInspectSecondVisitSignalsEscape(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.Install("foo"),
		"foo is up to date -- reinstalling",
	)

	eng := newTestEngine(t, runner)
	rc := eng.Context()
	rc.MarkProcessed("foo")

	status, err := eng.Inspect(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusPackagesRequiredToRemove, status)
	assert.True(t, rc.Removing())
	assert.Equal(t, "foo", rc.RemovalTarget())
}

func TestRemoveSelfLoopTerminates(t *testing.T) {
	runner := newFakeRunner(t)
	// pkgA lists itself as a dependent; the walk must not recurse forever.
	runner.script(cmds.QueryLocal("pkgA"),
		"Required By     : pkgA",
	)
	runner.script(cmds.Remove("pkgA"),
		"removing pkgA...",
		"error: target not found: pkgA",
	)

	eng := newTestEngine(t, runner)
	res, err := eng.Remove(context.Background(), "pkgA")
	require.NoError(t, err)
	assert.Equal(t, engine.RemovalOK, res)
}

func TestRemoveNotInstalled(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.QueryLocal("ghost"),
		"error: package 'ghost' was not found",
	)

	eng := newTestEngine(t, runner)
	res, err := eng.Remove(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, engine.RemovalNotInstalled, res)
	assert.Empty(t, eng.Context().Pending())
}

func TestRemoveDependentsBottomUp(t *testing.T) {
	runner := newFakeRunner(t)
	runner.script(cmds.QueryLocal("base"),
		"Required By     : depA depB",
	)
	runner.script(cmds.QueryLocal("depA"),
		"Required By     : None",
	)
	runner.script(cmds.QueryLocal("depB"),
		"Required By     : None",
	)
	for _, pkg := range []string{"base", "depA", "depB"} {
		runner.script(cmds.Remove(pkg),
			"removing "+pkg+"...",
			"error: target not found: "+pkg,
		)
	}

	eng := newTestEngine(t, runner)
	res, err := eng.Remove(context.Background(), "base")
	require.NoError(t, err)
	assert.Equal(t, engine.RemovalOK, res)

	// Dependents first, reversed from the Required By order, base last.
	assert.Equal(t, []string{"depB", "depA", "base"}, eng.Context().Pending())
}
