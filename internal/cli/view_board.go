package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stagegate/stagegate/internal/cli/formatter"
	"github.com/stagegate/stagegate/internal/contract"
	"github.com/stagegate/stagegate/internal/domain"
)

// boardRow is a flattened row of the board tree. Only activity rows are
// selectable.
type boardRow struct {
	isActivity bool
	activityID string
	label      string
	seq        int
	state      domain.ActivityState
	depth      int
}

// boardLoadedMsg signals that board data has been loaded.
type boardLoadedMsg struct {
	board *contract.BoardResponse
	err   error
}

// actionDoneMsg signals a workflow action finished; the board reloads next.
type actionDoneMsg struct {
	note string
	err  error
}

// boardView is the interactive project board: the phase/scenario/activity
// tree with a cursor and keyboard-driven workflow actions.
type boardView struct {
	app       *App
	projectID string
	board     *contract.BoardResponse
	rows      []boardRow
	cursor    int
	loading   bool
	err       error
	note      string
	width     int
	height    int

	keyUp       key.Binding
	keyDown     key.Binding
	keyComplete key.Binding
	keyRelease  key.Binding
	keyReopen   key.Binding
	keyRefresh  key.Binding
	keyQuit     key.Binding
}

func newBoardView(app *App, projectID string) *boardView {
	return &boardView{
		app:         app,
		projectID:   projectID,
		loading:     true,
		keyUp:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		keyDown:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		keyComplete: key.NewBinding(key.WithKeys("c", " "), key.WithHelp("c", "complete")),
		keyRelease:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "release")),
		keyReopen:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "reopen")),
		keyRefresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		keyQuit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (v *boardView) Init() tea.Cmd {
	return v.loadBoard()
}

func (v *boardView) loadBoard() tea.Cmd {
	app := v.app
	projectID := v.projectID
	return func() tea.Msg {
		board, err := app.Boards.Board(context.Background(), projectID, app.CallerID)
		return boardLoadedMsg{board: board, err: err}
	}
}

func (v *boardView) runAction(verb string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{note: verb}
	}
}

func (v *boardView) selectedActivity() *boardRow {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	row := &v.rows[v.cursor]
	if !row.isActivity {
		return nil
	}
	return row
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case boardLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.board = msg.board
		v.rows = flattenBoard(msg.board)
		if v.cursor >= len(v.rows) {
			v.cursor = len(v.rows) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
		// Land on an activity row so actions have a target.
		if len(v.rows) > 0 && !v.rows[v.cursor].isActivity {
			v.moveCursor(1)
		}
		return v, nil

	case actionDoneMsg:
		v.err = msg.err
		v.note = msg.note
		return v, v.loadBoard()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keyQuit):
			return v, tea.Quit
		case key.Matches(msg, v.keyRefresh):
			v.loading = true
			v.note = ""
			return v, v.loadBoard()
		case key.Matches(msg, v.keyUp):
			v.moveCursor(-1)
			return v, nil
		case key.Matches(msg, v.keyDown):
			v.moveCursor(1)
			return v, nil
		case key.Matches(msg, v.keyComplete):
			if row := v.selectedActivity(); row != nil {
				id := row.activityID
				return v, v.runAction(fmt.Sprintf("Completed #%d", row.seq), func(ctx context.Context) error {
					_, err := v.app.Workflow.CompleteActivity(ctx, id, v.app.CallerID)
					return err
				})
			}
		case key.Matches(msg, v.keyRelease):
			if row := v.selectedActivity(); row != nil {
				id := row.activityID
				return v, v.runAction(fmt.Sprintf("Released #%d", row.seq), func(ctx context.Context) error {
					_, err := v.app.Workflow.ReleaseActivity(ctx, id, v.app.CallerID)
					return err
				})
			}
		case key.Matches(msg, v.keyReopen):
			if row := v.selectedActivity(); row != nil {
				id := row.activityID
				return v, v.runAction(fmt.Sprintf("Reopened #%d", row.seq), func(ctx context.Context) error {
					_, err := v.app.Workflow.ReopenActivity(ctx, id, v.app.CallerID)
					return err
				})
			}
		}
	}

	return v, nil
}

// moveCursor steps to the next/previous activity row, skipping headers.
func (v *boardView) moveCursor(delta int) {
	i := v.cursor
	for {
		i += delta
		if i < 0 || i >= len(v.rows) {
			return
		}
		if v.rows[i].isActivity {
			v.cursor = i
			return
		}
	}
}

func flattenBoard(board *contract.BoardResponse) []boardRow {
	if board == nil {
		return nil
	}
	var rows []boardRow
	for _, phase := range board.Phases {
		rows = append(rows, boardRow{label: phase.Name, depth: 0})
		for _, sc := range phase.Scenarios {
			rows = append(rows, boardRow{label: sc.Name, depth: 1})
			for _, a := range sc.Activities {
				rows = append(rows, boardRow{
					isActivity: true,
					activityID: a.ID,
					label:      a.Description + "  " + a.Responsible,
					seq:        a.SequenceNumber,
					state:      a.State,
					depth:      2,
				})
			}
		}
	}
	return rows
}

func (v *boardView) View() string {
	if v.loading && v.board == nil {
		return formatter.Dim("Loading board...")
	}

	var b strings.Builder
	if v.board != nil {
		b.WriteString(formatter.Header(v.board.ProjectName))
		b.WriteString("\n")
		b.WriteString(formatter.Dim(fmt.Sprintf("%d members · %d profiles", v.board.MemberCount, v.board.ProfileCount)))
		b.WriteString("\n\n")
	}

	for i, row := range v.rows {
		indent := strings.Repeat("  ", row.depth)
		switch {
		case !row.isActivity && row.depth == 0:
			b.WriteString(indent + formatter.StylePurple.Render("▸ "+row.label))
		case !row.isActivity:
			b.WriteString(indent + formatter.StyleBlue.Render(row.label))
		default:
			marker := "  "
			if i == v.cursor {
				marker = formatter.StyleHeader.Render("❯ ")
			}
			b.WriteString(fmt.Sprintf("%s%s%s %s %s",
				indent,
				marker,
				formatter.Dim(fmt.Sprintf("#%d", row.seq)),
				formatter.StatePill(row.state),
				row.label,
			))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n")
	} else if v.note != "" {
		b.WriteString(formatter.StyleGreen.Render(v.note) + "\n")
	}
	b.WriteString(formatter.Dim("j/k move · c complete · l release · o reopen · r refresh · q quit"))
	return b.String()
}
