package formatter

import (
	"fmt"

	"github.com/stagegate/stagegate/internal/domain"
	"github.com/stagegate/stagegate/internal/service"
)

// FormatProjectList renders a styled project table inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			HumanDate(p.CreatedAt),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatMemberList renders project members with their assigned profiles.
func FormatMemberList(infos []service.MemberInfo) string {
	headers := []string{"ID", "USER", "PROFILE"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		profile := Dim("(unassigned)")
		if info.ProfileName != "" {
			profile = StylePurple.Render(info.ProfileName)
		}
		rows = append(rows, []string{
			TruncID(info.Member.ID),
			Bold(info.Username),
			profile,
		})
	}
	return RenderBox("Members", RenderTable(headers, rows))
}

// FormatProfileList renders a project's profiles with a granted-flag count.
func FormatProfileList(profiles []*domain.Profile) string {
	headers := []string{"ID", "NAME", "DEFAULT", "GRANTED"}
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		def := Dim("--")
		if p.IsDefault {
			def = StyleYellow.Render("default")
		}
		granted := 0
		for _, c := range domain.AllCapabilities {
			if p.Flags.Has(c) {
				granted++
			}
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			def,
			fmt.Sprintf("%d/%d", granted, len(domain.AllCapabilities)),
		})
	}
	return RenderBox("Profiles", RenderTable(headers, rows))
}

// FormatActivityList renders a scenario's activities in sequence order.
func FormatActivityList(activities []*domain.Activity) string {
	headers := []string{"ID", "SEQ", "STATE", "DESCRIPTION", "RESPONSIBLE", "COMPLETED"}
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []string{
			TruncID(a.ID),
			fmt.Sprintf("%d", a.SequenceNumber),
			StatePill(a.State()),
			StyleFg.Render(a.Description),
			Dim(a.Responsible),
			OptionalTimestamp(a.CompletedAt),
		})
	}
	return RenderBox("Activities", RenderTable(headers, rows))
}

// FormatLessonList renders a project's lessons-learned records.
func FormatLessonList(lessons []*domain.Lesson) string {
	headers := []string{"ID", "CATEGORY", "TYPE", "DESCRIPTION", "STATUS"}
	rows := make([][]string, 0, len(lessons))
	for _, l := range lessons {
		rows = append(rows, []string{
			TruncID(l.ID),
			StylePurple.Render(l.Category),
			Dim(l.Type),
			StyleFg.Render(l.Description),
			StyleBlue.Render(l.Status),
		})
	}
	return RenderBox("Lessons", RenderTable(headers, rows))
}

// FormatChangeList renders a project's change requests.
func FormatChangeList(changes []*domain.ChangeRequest) string {
	headers := []string{"ID", "REQUESTER", "TYPE", "PRIORITY", "STATUS"}
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{
			TruncID(c.ID),
			Bold(c.Requester),
			Dim(c.ChangeType),
			StyleYellow.Render(c.Priority),
			StyleBlue.Render(c.Status),
		})
	}
	return RenderBox("Change Requests", RenderTable(headers, rows))
}
