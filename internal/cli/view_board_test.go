package cli

import (
	"testing"

	"github.com/stagegate/stagegate/internal/contract"
	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenBoard(t *testing.T) {
	board := &contract.BoardResponse{
		ProjectName: "Apollo",
		Phases: []contract.PhaseView{
			{
				Name: "Phase 1",
				Scenarios: []contract.ScenarioView{
					{
						Name: "Scenario A",
						Activities: []contract.ActivityView{
							{ID: "a1", SequenceNumber: 1, Description: "Kickoff", State: domain.ActivityReleased},
							{ID: "a2", SequenceNumber: 2, Description: "Draft", State: domain.ActivityUnreleased},
						},
					},
				},
			},
		},
	}

	rows := flattenBoard(board)
	require.Len(t, rows, 4, "phase header, scenario header, two activities")
	assert.False(t, rows[0].isActivity)
	assert.False(t, rows[1].isActivity)
	assert.True(t, rows[2].isActivity)
	assert.Equal(t, "a1", rows[2].activityID)
	assert.Equal(t, domain.ActivityUnreleased, rows[3].state)
}

func TestFlattenBoard_Nil(t *testing.T) {
	assert.Nil(t, flattenBoard(nil))
}

func TestMoveCursor_SkipsHeaders(t *testing.T) {
	v := &boardView{
		rows: []boardRow{
			{label: "Phase"},
			{label: "Scenario"},
			{isActivity: true, activityID: "a1"},
			{label: "Scenario B"},
			{isActivity: true, activityID: "a2"},
		},
		cursor: 2,
	}

	v.moveCursor(1)
	assert.Equal(t, 4, v.cursor, "skips the scenario header")

	v.moveCursor(1)
	assert.Equal(t, 4, v.cursor, "stays at the end")

	v.moveCursor(-1)
	assert.Equal(t, 2, v.cursor)
}

func TestFlagsFromSelection(t *testing.T) {
	flags := flagsFromSelection([]domain.Capability{domain.CapEditActivity})
	assert.True(t, flags.Has(domain.CapEditActivity))
	assert.False(t, flags.Has(domain.CapDeleteActivity))
	assert.Len(t, flags, len(domain.AllCapabilities))
}
