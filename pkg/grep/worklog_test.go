package grep_test

import (
	"testing"

	"github.com/stackvity/specific-grep/pkg/grep"
	"github.com/stretchr/testify/assert"
)

func TestBuildWorkerLog_Ordering(t *testing.T) {
	result := grep.CombinedResult{Outcomes: []grep.WorkerOutcome{
		outcome(0, grep.OutcomeIdle, nil),
		outcome(1, grep.OutcomeNoMatches, []string{"n1", "n2"}),
		// One matched file out of three processed.
		outcome(2, grep.OutcomeMatched, []string{"p", "q", "r"},
			match(2, "q", 1, "x"), match(2, "q", 5, "x")),
		// Two matched files.
		outcome(3, grep.OutcomeMatched, []string{"s", "t"},
			match(3, "s", 1, "x"), match(3, "t", 1, "x")),
		// One matched file out of one processed.
		outcome(4, grep.OutcomeMatched, []string{"u"},
			match(4, "u", 2, "x")),
		outcome(5, grep.OutcomeNoMatches, []string{"n3", "n4"}),
		outcome(6, grep.OutcomeNoMatches, []string{"n5", "n6", "n7"}),
	}}

	log := grep.BuildWorkerLog(result)

	var order []int
	for _, e := range log.Entries {
		order = append(order, e.WorkerID)
	}
	assert.Equal(t, []int{3, 2, 4, 6, 1, 5, 0}, order)

	want := "3:s,t\n" +
		"2:p,q,r\n" +
		"4:u\n" +
		"6:n5,n6,n7\n" +
		"1:n1,n2\n" +
		"5:n3,n4\n" +
		"0:\n"
	assert.Equal(t, want, string(log.Render()))
}

func TestBuildWorkerLog_ListsProcessedFilesOnly(t *testing.T) {
	o := outcome(0, grep.OutcomeMatched, []string{"ok.txt"}, match(0, "ok.txt", 1, "hit"))
	o.Attempted = []string{"gone.txt", "ok.txt"}
	o.Failed = []grep.FileFailure{{Path: "gone.txt", Reason: "failed to open file"}}

	log := grep.BuildWorkerLog(grep.CombinedResult{Outcomes: []grep.WorkerOutcome{o}})
	assert.Equal(t, "0:ok.txt\n", string(log.Render()))
	assert.Equal(t, "matched", log.Entries[0].Kind)
	assert.Equal(t, 1, log.Entries[0].MatchedFiles)
}

func TestBuildWorkerLog_DoesNotAliasOutcome(t *testing.T) {
	o := outcome(0, grep.OutcomeNoMatches, []string{"a", "b"})
	log := grep.BuildWorkerLog(grep.CombinedResult{Outcomes: []grep.WorkerOutcome{o}})
	log.Entries[0].Files[0] = "changed"
	assert.Equal(t, "a", o.Processed[0])
}
