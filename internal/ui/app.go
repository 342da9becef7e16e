package ui

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bmeyers/taskflow/internal/auth"
	"github.com/bmeyers/taskflow/internal/models"
	"github.com/bmeyers/taskflow/internal/service"
	"github.com/bmeyers/taskflow/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewProjects
	ViewBoard
)

// App routes messages to the active view and handles the session-level
// transitions (login, logout, project selection).
type App struct {
	svc         *service.Services
	creds       *auth.Store
	currentView View
	login       *views.LoginView
	projectList *views.ProjectListView
	boardView   *views.BoardView
	width       int
	height      int
}

// NewApp creates the application model.
func NewApp(svc *service.Services, creds *auth.Store) *App {
	return &App{
		svc:         svc,
		creds:       creds,
		currentView: ViewLogin,
		login:       views.NewLoginView(svc),
		projectList: views.NewProjectListView(svc),
	}
}

func (a *App) Init() tea.Cmd {
	if !a.creds.Authenticated() {
		return a.login.Init()
	}

	a.currentView = ViewProjects

	// Reopen the last project directly when one is remembered.
	if raw, err := a.creds.GetSetting("last_project_id"); err == nil && raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return tea.Batch(a.projectList.Init(), a.reopenProject(id))
		}
	}
	return a.projectList.Init()
}

// reopenProject fetches the remembered project and opens its board; a
// fetch failure just leaves the project list showing.
func (a *App) reopenProject(id int64) tea.Cmd {
	return func() tea.Msg {
		project, err := a.svc.API.Projects.Get(context.Background(), id)
		if err != nil {
			return nil
		}
		return views.SelectedProject{Project: *project}
	}
}

func (a *App) openBoard(project models.Project) tea.Cmd {
	a.currentView = ViewBoard
	a.boardView = views.NewBoardView(a.svc, project)
	a.creds.SetSetting("last_project_id", strconv.FormatInt(project.ID, 10))

	return tea.Batch(
		a.boardView.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Project list persists across views, keep its size current.
		a.projectList.Update(msg)

	case views.LoggedIn:
		a.currentView = ViewProjects
		return a, tea.Batch(
			a.projectList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.LoggedOut:
		a.currentView = ViewLogin
		a.login = views.NewLoginView(a.svc)
		return a, a.login.Init()

	case views.SelectedProject:
		return a, a.openBoard(msg.Project)

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.creds.SetSetting("last_project_id", "")
		return a, tea.Batch(
			a.projectList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewBoard:
		_, cmd = a.boardView.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewLogin:
		return a.login.View()
	case ViewBoard:
		if a.boardView != nil {
			return a.boardView.View()
		}
	}
	return a.projectList.View()
}
