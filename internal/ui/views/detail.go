package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/bmeyers/taskflow/internal/models"
	"github.com/bmeyers/taskflow/internal/service"
	"github.com/bmeyers/taskflow/internal/ui/keys"
	"github.com/bmeyers/taskflow/internal/ui/styles"
)

// closeDetailMsg tells the board the detail view is done; changed reports
// whether anything was written so the board can refetch.
type closeDetailMsg struct {
	changed bool
}

// TaskDetailView is the read view of one task: markdown description,
// comments, and time log.
type TaskDetailView struct {
	svc    *service.Services
	taskID int64
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	task        *models.Task
	comments    []models.Comment
	timeEntries []models.TimeEntry
	loaded      bool
	errMsg      string
	changed     bool

	commenting   bool
	commentInput textarea.Model

	loggingTime  bool
	minutesInput textinput.Model
}

// NewTaskDetailView creates the detail view for a task.
func NewTaskDetailView(svc *service.Services, taskID int64) *TaskDetailView {
	comment := textarea.New()
	comment.Placeholder = "Add a comment..."
	comment.CharLimit = 2000
	comment.SetWidth(50)
	comment.SetHeight(3)
	comment.ShowLineNumbers = false

	minutes := textinput.New()
	minutes.Placeholder = "Minutes spent"
	minutes.CharLimit = 5

	return &TaskDetailView{
		svc:          svc,
		taskID:       taskID,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		commentInput: comment,
		minutesInput: minutes,
	}
}

func (v *TaskDetailView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.commentInput.SetWidth(clamp(width-8, 20, 70))
}

func (v *TaskDetailView) Init() tea.Cmd {
	return v.load
}

type detailLoadedMsg struct {
	task        *models.Task
	comments    []models.Comment
	timeEntries []models.TimeEntry
	err         error
}

func (v *TaskDetailView) load() tea.Msg {
	ctx := context.Background()

	task, err := v.svc.Task(ctx, v.taskID)
	if err != nil {
		return detailLoadedMsg{err: err}
	}
	comments, err := v.svc.TaskComments(ctx, v.taskID)
	if err != nil {
		return detailLoadedMsg{err: err}
	}
	entries, err := v.svc.TaskTimeEntries(ctx, v.taskID)
	if err != nil {
		return detailLoadedMsg{err: err}
	}
	return detailLoadedMsg{task: task, comments: comments, timeEntries: entries}
}

type detailWrittenMsg struct {
	err error
}

func (v *TaskDetailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		v.loaded = true
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			if sessionEnded(msg.err) {
				return func() tea.Msg { return LoggedOut{} }
			}
			return nil
		}
		v.errMsg = ""
		v.task = msg.task
		v.comments = msg.comments
		v.timeEntries = msg.timeEntries
		return nil

	case detailWrittenMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return nil
		}
		v.changed = true
		return v.load

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return nil
}

func (v *TaskDetailView) updateKeys(msg tea.KeyMsg) tea.Cmd {
	if v.commenting {
		return v.updateCommenting(msg)
	}
	if v.loggingTime {
		return v.updateLoggingTime(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		changed := v.changed
		return func() tea.Msg { return closeDetailMsg{changed: changed} }

	case key.Matches(msg, v.keys.Comment):
		v.commenting = true
		v.commentInput.Reset()
		v.commentInput.Focus()
		return textarea.Blink

	case key.Matches(msg, v.keys.LogTime):
		v.loggingTime = true
		v.minutesInput.Reset()
		v.minutesInput.Focus()
		return textinput.Blink

	case key.Matches(msg, v.keys.Refresh):
		return v.load
	}
	return nil
}

func (v *TaskDetailView) updateCommenting(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.commenting = false
		v.commentInput.Blur()
		return nil

	case msg.String() == "ctrl+s":
		content := strings.TrimSpace(v.commentInput.Value())
		if content == "" {
			return nil
		}
		v.commenting = false
		v.commentInput.Blur()
		return func() tea.Msg {
			return detailWrittenMsg{err: v.svc.AddTaskComment(context.Background(), v.taskID, content)}
		}
	}

	var cmd tea.Cmd
	v.commentInput, cmd = v.commentInput.Update(msg)
	return cmd
}

func (v *TaskDetailView) updateLoggingTime(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.loggingTime = false
		v.minutesInput.Blur()
		return nil

	case key.Matches(msg, v.keys.Enter):
		minutes, err := strconv.Atoi(strings.TrimSpace(v.minutesInput.Value()))
		if err != nil || minutes <= 0 {
			v.errMsg = "minutes must be a positive number"
			return nil
		}
		v.loggingTime = false
		v.minutesInput.Blur()
		return func() tea.Msg {
			return detailWrittenMsg{err: v.svc.LogTaskTime(context.Background(), v.taskID, minutes, "")}
		}
	}

	var cmd tea.Cmd
	v.minutesInput, cmd = v.minutesInput.Update(msg)
	return cmd
}

// View renders the detail view
func (v *TaskDetailView) View() string {
	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Loading task...")
	}
	if v.task == nil {
		return s.ErrorBar.Render(v.errMsg)
	}

	task := v.task
	var rows []string

	rows = append(rows, s.Title.Render(task.Title))

	meta := fmt.Sprintf("%s • %s", task.Status.Title(), task.Priority)
	if task.DueDate != nil {
		meta += " • due " + task.DueDate.Format("Jan 2")
	}
	for _, u := range task.Assignees {
		meta += " • @" + u.Username
	}
	rows = append(rows, s.TitleMuted.Render(meta))

	if len(task.Labels) > 0 {
		var badges []string
		for _, label := range task.Labels {
			badge := s.Badge
			if label.Color != "" {
				badge = badge.Foreground(lipgloss.Color(label.Color))
			}
			badges = append(badges, badge.Render(label.Name))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, badges...))
	}
	rows = append(rows, "")

	if task.Description != "" {
		rows = append(rows, v.renderMarkdown(task.Description))
	}

	if len(v.timeEntries) > 0 {
		total := 0
		for _, e := range v.timeEntries {
			total += e.Minutes
		}
		rows = append(rows, s.TitleMuted.Render(fmt.Sprintf("Time logged: %dh%02dm", total/60, total%60)), "")
	}

	rows = append(rows, s.Title.Render(fmt.Sprintf("Comments (%d)", len(v.comments))))
	for _, comment := range v.comments {
		rows = append(rows,
			s.HelpKey.Render(comment.Author.Username)+
				s.TitleMuted.Render(" "+comment.CreatedAt.Format("Jan 2 15:04")),
			s.ListItem.Render(comment.Content),
		)
	}

	if v.commenting {
		rows = append(rows, "", s.InputFocused.Render(v.commentInput.View()),
			s.TitleMuted.Render("Ctrl+S: post • Esc: cancel"))
	}
	if v.loggingTime {
		rows = append(rows, "", s.InputFocused.Render(v.minutesInput.View()),
			s.TitleMuted.Render("↵: log • Esc: cancel"))
	}

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBar.Render(v.errMsg))
	}
	if !v.commenting && !v.loggingTime {
		rows = append(rows, "", s.Help.Render(
			fmt.Sprintf("%s comment • %s log time • %s refresh • %s back",
				s.HelpKey.Render("c"),
				s.HelpKey.Render("t"),
				s.HelpKey.Render("r"),
				s.HelpKey.Render("esc"),
			),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *TaskDetailView) renderMarkdown(text string) string {
	width := clamp(v.width-4, 20, 80)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
