package cli

import (
	"github.com/spf13/cobra"
	"github.com/stagegate/stagegate/internal/service"
)

// App holds references to all service interfaces used by CLI commands,
// plus the resolved identity of the acting user.
type App struct {
	Users      service.UserService
	Projects   service.ProjectService
	Members    service.MembershipService
	Permission service.PermissionService
	Workflow   service.WorkflowService
	Records    service.RecordService
	Boards     service.BoardService

	// CallerID is the user ID all commands act as.
	CallerID string

	// IsInteractive reports whether stdin is an interactive terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "stagegate" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "stagegate",
		Short: "Phase-gated project tracker with capability profiles",
	}

	root.AddCommand(
		newUserCmd(app),
		newProjectCmd(app),
		newMemberCmd(app),
		newProfileCmd(app),
		newPhaseCmd(app),
		newScenarioCmd(app),
		newActivityCmd(app),
		newLessonCmd(app),
		newChangeCmd(app),
		newBoardCmd(app),
	)

	return root
}
