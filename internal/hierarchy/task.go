package hierarchy

import "fmt"

// Task identifiers come in three shapes depending on which links exist
// at creation time, plus a dotted suffix form for subtasks. Lookup
// failures degrade shape by shape down to TaskIDBare; ID cosmetics must
// never block task creation.

// TaskIDUnderFR extends a functional requirement's identifier. The
// sprint token is included when the task is also scheduled:
//
//	<FRID>-S<STOK>-T<NN>  or  <FRID>-T<NN>
func TaskIDUnderFR(frID, sprintName string, seq int64) string {
	if sprintName != "" {
		return fmt.Sprintf("%s-S%s-T%02d", frID, Token(sprintName), seq)
	}
	return fmt.Sprintf("%s-T%02d", frID, seq)
}

// TaskIDInSprint builds the identifier of a task scheduled into a
// sprint without a functional requirement. The project name token sits
// between the code and the sprint token: <CODE>-<PTOK>-S<STOK>-T<NN>.
func TaskIDInSprint(projectCode, projectName, sprintName string, seq int64) string {
	return fmt.Sprintf("%s-%s-S%s-T%02d", projectCode, Token(projectName), Token(sprintName), seq)
}

// TaskIDBare is the simplest shape and the terminal fallback:
// <CODE>-T<NN>.
func TaskIDBare(projectCode string, seq int64) string {
	return fmt.Sprintf("%s-T%02d", projectCode, seq)
}

// SubtaskID suffixes a parent task's identifier with the 1-based
// sibling ordinal: <parent>.<NN>. Ordinals are never reused, so deleting
// a sibling leaves a gap instead of renumbering.
func SubtaskID(parentID string, n int64) string {
	return fmt.Sprintf("%s.%02d", parentID, n)
}
