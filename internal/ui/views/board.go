package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bmeyers/taskflow/internal/api"
	"github.com/bmeyers/taskflow/internal/board"
	"github.com/bmeyers/taskflow/internal/cache"
	"github.com/bmeyers/taskflow/internal/models"
	"github.com/bmeyers/taskflow/internal/service"
	"github.com/bmeyers/taskflow/internal/ui/keys"
	"github.com/bmeyers/taskflow/internal/ui/styles"
)

// BackToProjects signals to go back to the project list.
type BackToProjects struct{}

// BoardView renders the Kanban board for one project.
type BoardView struct {
	svc     *service.Services
	project models.Project
	board   *board.Board
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	loaded  bool
	errMsg  string
	unread  int
	colIdx  int
	taskIdx int

	searching   bool
	searchInput textinput.Model

	creating bool
	newTitle textinput.Model

	detail *TaskDetailView
}

// NewBoardView creates the board for a project.
func NewBoardView(svc *service.Services, project models.Project) *BoardView {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	newTitle := textinput.New()
	newTitle.Placeholder = "Task title"
	newTitle.CharLimit = 200

	return &BoardView{
		svc:         svc,
		project:     project,
		board:       board.New(nil),
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		searchInput: search,
		newTitle:    newTitle,
	}
}

// Init initializes the view
func (v *BoardView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.loadUnread)
}

type boardTasksMsg struct {
	tasks []models.Task
	err   error
}

type unreadMsg struct {
	count int
}

type moveResultMsg struct {
	move board.Move
	err  error
}

func (v *BoardView) filters() api.TaskFilters {
	return api.TaskFilters{
		Project:  &v.project.ID,
		Search:   strings.TrimSpace(v.searchInput.Value()),
		PageSize: 200,
	}
}

func (v *BoardView) loadTasks() tea.Msg {
	page, err := v.svc.Tasks(context.Background(), v.filters())
	if err != nil {
		return boardTasksMsg{err: err}
	}
	return boardTasksMsg{tasks: page.Results}
}

func (v *BoardView) loadUnread() tea.Msg {
	count, err := v.svc.API.Notifications.UnreadCount(context.Background())
	if err != nil {
		// Unread count is decoration; board errors stay task-related.
		return unreadMsg{}
	}
	return unreadMsg{count: count}
}

// moveTask applies the optimistic move and issues the mutation.
func (v *BoardView) moveTask(taskID int64, from, to models.StatusType) tea.Cmd {
	move, ok := v.board.MoveTask(taskID, from, to)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		err := v.svc.ChangeTaskStatus(context.Background(), taskID, to)
		return moveResultMsg{move: move, err: err}
	}
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if v.detail != nil {
			v.detail.setSize(msg.Width, msg.Height)
		}
		return v, nil

	case boardTasksMsg:
		v.loaded = true
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			if sessionEnded(msg.err) {
				return v, func() tea.Msg { return LoggedOut{} }
			}
			return v, nil
		}
		v.errMsg = ""
		v.board.Reload(msg.tasks)
		v.clampCursor()
		return v, nil

	case unreadMsg:
		v.unread = msg.count
		return v, nil

	case moveResultMsg:
		if msg.err != nil {
			v.board.Revert(msg.move)
			v.errMsg = msg.err.Error()
			if sessionEnded(msg.err) {
				return v, func() tea.Msg { return LoggedOut{} }
			}
			return v, nil
		}
		v.board.Settle(msg.move)
		return v, nil

	case closeDetailMsg:
		v.detail = nil
		if msg.changed {
			return v, v.loadTasks
		}
		return v, nil
	}

	if v.detail != nil {
		cmd := v.detail.Update(msg)
		return v, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return v.updateKeys(keyMsg)
	}
	return v, nil
}

func (v *BoardView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.searching {
		return v.updateSearching(msg)
	}
	if v.creating {
		return v.updateCreating(msg)
	}

	columns := v.board.Columns()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Left):
		v.colIdx = clamp(v.colIdx-1, 0, len(columns)-1)
		v.clampCursor()
		return v, nil

	case key.Matches(msg, v.keys.Right):
		v.colIdx = clamp(v.colIdx+1, 0, len(columns)-1)
		v.clampCursor()
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.taskIdx = clamp(v.taskIdx-1, 0, v.columnLen()-1)
		return v, nil

	case key.Matches(msg, v.keys.Down):
		v.taskIdx = clamp(v.taskIdx+1, 0, v.columnLen()-1)
		return v, nil

	case key.Matches(msg, v.keys.MoveLeft):
		if task, ok := v.selectedTask(); ok && v.colIdx > 0 {
			from := columns[v.colIdx].ID
			to := columns[v.colIdx-1].ID
			cmd := v.moveTask(task.ID, from, to)
			v.colIdx--
			v.clampCursor()
			return v, cmd
		}
		return v, nil

	case key.Matches(msg, v.keys.MoveRight):
		if task, ok := v.selectedTask(); ok && v.colIdx < len(columns)-1 {
			from := columns[v.colIdx].ID
			to := columns[v.colIdx+1].ID
			cmd := v.moveTask(task.ID, from, to)
			v.colIdx++
			v.clampCursor()
			return v, cmd
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if task, ok := v.selectedTask(); ok {
			v.detail = NewTaskDetailView(v.svc, task.ID)
			v.detail.setSize(v.width, v.height)
			return v, v.detail.Init()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.creating = true
		v.newTitle.Reset()
		v.newTitle.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selectedTask(); ok {
			id := task.ID
			return v, func() tea.Msg {
				if err := v.svc.DeleteTask(context.Background(), id); err != nil {
					return boardTasksMsg{err: err}
				}
				return v.loadTasks()
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Refresh):
		v.svc.Cache.Invalidate(cache.NewKey("tasks"))
		return v, tea.Batch(v.loadTasks, v.loadUnread)
	}

	return v, nil
}

func (v *BoardView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searching = false
		v.searchInput.Reset()
		v.searchInput.Blur()
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.searchInput.Blur()
		return v, v.loadTasks
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	return v, cmd
}

func (v *BoardView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.newTitle.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		title := strings.TrimSpace(v.newTitle.Value())
		if title == "" {
			return v, nil
		}
		v.creating = false
		v.newTitle.Blur()
		projectID := v.project.ID
		status := string(v.board.Columns()[v.colIdx].ID)
		return v, func() tea.Msg {
			_, err := v.svc.CreateTask(context.Background(), api.TaskInput{
				Title:   &title,
				Project: &projectID,
				Status:  &status,
			})
			if err != nil {
				return boardTasksMsg{err: err}
			}
			return v.loadTasks()
		}
	}

	var cmd tea.Cmd
	v.newTitle, cmd = v.newTitle.Update(msg)
	return v, cmd
}

func (v *BoardView) columnLen() int {
	columns := v.board.Columns()
	if v.colIdx >= len(columns) {
		return 0
	}
	return len(columns[v.colIdx].Tasks)
}

func (v *BoardView) clampCursor() {
	columns := v.board.Columns()
	v.colIdx = clamp(v.colIdx, 0, max(len(columns)-1, 0))
	v.taskIdx = clamp(v.taskIdx, 0, max(v.columnLen()-1, 0))
}

func (v *BoardView) selectedTask() (models.Task, bool) {
	columns := v.board.Columns()
	if v.colIdx >= len(columns) {
		return models.Task{}, false
	}
	tasks := columns[v.colIdx].Tasks
	if v.taskIdx >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[v.taskIdx], true
}

// View renders the board
func (v *BoardView) View() string {
	if v.detail != nil {
		return v.detail.View()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading board...")
	}

	var sections []string
	sections = append(sections, v.renderHeader())
	if v.searching || strings.TrimSpace(v.searchInput.Value()) != "" {
		sections = append(sections, v.styles.Input.Render(v.searchInput.View()))
	}
	if v.creating {
		sections = append(sections, v.styles.InputFocused.Render(v.newTitle.View()))
	}
	sections = append(sections, v.renderColumns(), v.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	title := s.Title.Render(v.project.Name)
	if v.unread > 0 {
		title += s.TitleMuted.Render(fmt.Sprintf("  🔔 %d", v.unread))
	}
	if v.board.State() == board.OptimisticPending {
		title += s.CardPending.Render(" syncing…")
	}
	return title
}

func (v *BoardView) renderColumns() string {
	s := v.styles
	columns := v.board.Columns()
	if len(columns) == 0 {
		return s.TitleMuted.Render("No tasks")
	}

	colWidth := clamp(v.width/len(columns)-2, 16, 40)
	rendered := make([]string, 0, len(columns))
	for i, col := range columns {
		style := s.Column
		if i == v.colIdx {
			style = s.ColumnFocused
		}

		titleStyle := s.ColumnTitle
		if col.Color != "" {
			titleStyle = titleStyle.Foreground(lipgloss.Color(col.Color))
		}
		header := titleStyle.Render(col.Title) +
			s.ColumnCount.Render(fmt.Sprintf(" %d", len(col.Tasks)))

		rows := []string{header, ""}
		for j, task := range col.Tasks {
			rows = append(rows, v.renderCard(task, colWidth-2, i == v.colIdx && j == v.taskIdx))
		}
		if len(col.Tasks) == 0 {
			rows = append(rows, s.TitleMuted.Render("—"))
		}

		body := lipgloss.JoinVertical(lipgloss.Left, rows...)
		rendered = append(rendered, style.Width(colWidth).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (v *BoardView) renderCard(task models.Task, width int, selected bool) string {
	s := v.styles

	style := s.Card
	if selected {
		style = s.CardSelected
	}

	title := task.Title
	if width > 5 {
		title = runewidth.Truncate(title, width-2, "…")
	}

	meta := string(task.Priority)
	if len(task.Assignees) > 0 {
		meta += " @" + task.Assignees[0].Username
	}
	if task.CommentsCount > 0 {
		meta += fmt.Sprintf(" 💬%d", task.CommentsCount)
	}

	prio := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(string(task.Priority))).
		Render("▌")

	return prio + style.Width(width-1).Render(title) + "\n " + s.CardMeta.Render(meta)
}

func (v *BoardView) renderStatusBar() string {
	s := v.styles
	if v.errMsg != "" {
		return s.ErrorBar.Render(v.errMsg)
	}
	return s.Help.Render(
		fmt.Sprintf("%s navigate • %s move task • %s open • %s new • %s del • %s search • %s refresh • %s back",
			s.HelpKey.Render("hjkl"),
			s.HelpKey.Render("H/L"),
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("esc"),
		),
	)
}
