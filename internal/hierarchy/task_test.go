package hierarchy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskIDShapes(t *testing.T) {
	frID := FunctionalRequirementID(EpicOnly("PAY", "Card payments"), "Tokenize card", 1)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "under FR with sprint",
			got:  TaskIDUnderFR(frID, "Sprint 12", 1),
			want: "PAY-ECRDP-FRTKNZ-01-SSPRN-T01",
		},
		{
			name: "under FR without sprint",
			got:  TaskIDUnderFR(frID, "", 2),
			want: "PAY-ECRDP-FRTKNZ-01-T02",
		},
		{
			name: "sprint only",
			got:  TaskIDInSprint("PAY", "Payments", "Sprint 12", 7),
			want: "PAY-PYMN-SSPRN-T07",
		},
		{
			name: "bare fallback",
			got:  TaskIDBare("PAY", 9),
			want: "PAY-T09",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

// N subtasks created in order get suffixes .01 .. .0N regardless of the
// parent's own shape.
func TestSubtaskIDSequence(t *testing.T) {
	parents := []string{
		TaskIDBare("PAY", 1),
		TaskIDInSprint("PAY", "Payments", "Sprint 12", 3),
		TaskIDUnderFR("PAY-FRTKNZ-01", "Sprint 12", 2),
	}
	for _, parent := range parents {
		for n := int64(1); n <= 5; n++ {
			assert.Equal(t, fmt.Sprintf("%s.%02d", parent, n), SubtaskID(parent, n))
		}
	}
}
