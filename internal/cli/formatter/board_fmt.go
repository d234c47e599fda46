package formatter

import (
	"fmt"
	"strings"

	"github.com/stagegate/stagegate/internal/contract"
	"github.com/stagegate/stagegate/internal/domain"
)

// FormatBoard renders the full phase/scenario/activity tree for a project.
func FormatBoard(board *contract.BoardResponse) string {
	var b strings.Builder

	b.WriteString(Header(board.ProjectName))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%d members · %d profiles", board.MemberCount, board.ProfileCount)))
	b.WriteString("\n\n")

	if len(board.Phases) == 0 {
		b.WriteString(Dim("No phases yet."))
		b.WriteString("\n")
		return b.String()
	}

	for _, phase := range board.Phases {
		b.WriteString(StylePurple.Render("▸ " + phase.Name))
		b.WriteString("\n")

		if len(phase.Scenarios) == 0 {
			b.WriteString(Dim("  (no scenarios)"))
			b.WriteString("\n")
		}
		for _, sc := range phase.Scenarios {
			b.WriteString("  ")
			b.WriteString(StyleBlue.Render(sc.Name))
			b.WriteString("\n")

			for _, a := range sc.Activities {
				b.WriteString(fmt.Sprintf("    %s %s %s %s\n",
					Dim(fmt.Sprintf("#%d", a.SequenceNumber)),
					StatePill(a.State),
					StyleFg.Render(a.Description),
					Dim("→ "+a.Responsible),
				))
			}
			if len(sc.Activities) == 0 {
				b.WriteString(Dim("    (no activities)"))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCapabilities renders the caller's effective capability set as a
// two-column granted/denied listing.
func FormatCapabilities(caps domain.CapabilitySet) string {
	rows := make([][]string, 0, len(domain.AllCapabilities))
	for _, c := range domain.AllCapabilities {
		mark := StyleRed.Render("✖")
		if caps.Has(c) {
			mark = StyleGreen.Render("✔")
		}
		rows = append(rows, []string{string(c), mark})
	}
	return RenderTable([]string{"CAPABILITY", "GRANTED"}, rows)
}
