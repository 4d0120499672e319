package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverContextProcessedSet(t *testing.T) {
	rc := NewResolverContext()

	assert.False(t, rc.Processed("foo"))
	rc.MarkProcessed("foo")
	rc.MarkProcessed("bar")
	assert.True(t, rc.Processed("foo"))
	assert.Equal(t, 2, rc.ProcessedCount())

	rc.ForgetProcessed("foo")
	assert.False(t, rc.Processed("foo"))
	assert.True(t, rc.Processed("bar"))

	rc.ResetProcessed()
	assert.Equal(t, 0, rc.ProcessedCount())
}

func TestResolverContextPendingPreservesOrder(t *testing.T) {
	rc := NewResolverContext()

	rc.AddPending("a")
	rc.AddPending("b")
	rc.AddPending("a") // duplicate
	rc.AddPending("c")
	assert.Equal(t, []string{"a", "b", "c"}, rc.Pending())

	rc.DropPending("b")
	assert.Equal(t, []string{"a", "c"}, rc.Pending())
	assert.False(t, rc.IsPending("b"))

	rc.ClearPending()
	assert.Empty(t, rc.Pending())
}

func TestResolverContextRemovalFlagCoupledToTarget(t *testing.T) {
	rc := NewResolverContext()

	assert.False(t, rc.Removing())
	assert.Empty(t, rc.RemovalTarget())

	rc.BeginRemoval("foo")
	assert.True(t, rc.Removing())
	assert.Equal(t, "foo", rc.RemovalTarget())

	rc.EndRemoval()
	assert.False(t, rc.Removing())
	assert.Empty(t, rc.RemovalTarget())
}

func TestJournalDeduplicatesWithinKind(t *testing.T) {
	j := NewJournal()

	j.Record(EventConflictsResolved, "a")
	j.Record(EventConflictsResolved, "b")
	j.Record(EventConflictsResolved, "a")
	j.Record(EventNotFoundInRepos, "a")

	assert.Equal(t, []string{"a", "b"}, j.Group(EventConflictsResolved))
	assert.Equal(t, []string{"a"}, j.Group(EventNotFoundInRepos))
	assert.Empty(t, j.Group(EventRemovedReinstalled))
}

func TestProcedureStatusValidate(t *testing.T) {
	for _, s := range []ProcedureStatus{
		StatusNothingToDo, StatusConflictsResolved, StatusRequiredByResolved,
		StatusTargetNotFoundResolved, StatusDependencyUnsatisfyResolved,
		StatusInstalledPackage, StatusPackagesRequiredToRemove,
		StatusContinueProcessing, StatusDone, StatusError,
	} {
		assert.NoError(t, s.Validate())
	}
	assert.Error(t, ProcedureStatus("bogus").Validate())

	assert.True(t, StatusNothingToDo.IsTerminal())
	assert.True(t, StatusDone.IsTerminal())
	assert.False(t, StatusContinueProcessing.IsTerminal())
	assert.False(t, StatusPackagesRequiredToRemove.IsTerminal())
}

func TestIssueTypeValidate(t *testing.T) {
	for _, it := range []IssueType{
		IssueConflict, IssueRequiredBy, IssueTargetNotFound,
		IssueDependencyUnsatisfy, IssueNothingToFix, IssueUpToDate, IssueUnknown,
	} {
		assert.NoError(t, it.Validate())
	}
	assert.Error(t, IssueType("bogus").Validate())
}
