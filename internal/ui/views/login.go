package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bmeyers/taskflow/internal/models"
	"github.com/bmeyers/taskflow/internal/service"
	"github.com/bmeyers/taskflow/internal/ui/keys"
	"github.com/bmeyers/taskflow/internal/ui/styles"
)

// LoggedIn signals a successful login or registration.
type LoggedIn struct {
	User *models.UserSummary
}

// LoginView collects credentials and signs the user in.
type LoginView struct {
	svc    *service.Services
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	registering bool // ctrl+r toggles between login and register forms
	username    textinput.Model
	email       textinput.Model
	password    textinput.Model
	focusIdx    int
	submitting  bool
	errMsg      string
}

// NewLoginView creates the login form.
func NewLoginView(svc *service.Services) *LoginView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 100
	username.Focus()

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 200

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword

	return &LoginView{
		svc:      svc,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		username: username,
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

type loginDoneMsg struct {
	user *models.UserSummary
	err  error
}

func (v *LoginView) submit() tea.Cmd {
	username := strings.TrimSpace(v.username.Value())
	password := v.password.Value()
	email := strings.TrimSpace(v.email.Value())
	registering := v.registering

	return func() tea.Msg {
		ctx := context.Background()
		var user *models.UserSummary
		var err error
		if registering {
			user, err = v.svc.API.Auth.Register(ctx, username, email, password)
		} else {
			user, err = v.svc.API.Auth.Login(ctx, username, password)
		}
		return loginDoneMsg{user: user, err: err}
	}
}

func (v *LoginView) fieldCount() int {
	if v.registering {
		return 4 // username, email, password, submit
	}
	return 3 // username, password, submit
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginDoneMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		return v, func() tea.Msg { return LoggedIn{User: msg.user} }

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+r":
			v.registering = !v.registering
			v.focusIdx = 0
			v.errMsg = ""
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < v.fieldCount()-1 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			if strings.TrimSpace(v.username.Value()) == "" || v.password.Value() == "" {
				v.errMsg = "username and password are required"
				return v, nil
			}
			v.submitting = true
			v.errMsg = ""
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch {
	case v.focusIdx == 0:
		v.username, cmd = v.username.Update(msg)
	case v.registering && v.focusIdx == 1:
		v.email, cmd = v.email.Update(msg)
	case (!v.registering && v.focusIdx == 1) || (v.registering && v.focusIdx == 2):
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) updateFocus() {
	v.username.Blur()
	v.email.Blur()
	v.password.Blur()

	switch {
	case v.focusIdx == 0:
		v.username.Focus()
	case v.registering && v.focusIdx == 1:
		v.email.Focus()
	case (!v.registering && v.focusIdx == 1) || (v.registering && v.focusIdx == 2):
		v.password.Focus()
	}
}

func (v *LoginView) View() string {
	s := v.styles

	title := "Sign In"
	if v.registering {
		title = "Create Account"
	}

	inputStyle := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	rows := []string{
		s.Title.Render("TaskFlow"),
		s.TitleMuted.Render(title),
		"",
		inputStyle(0).Width(34).Render(v.username.View()),
	}
	idx := 1
	if v.registering {
		rows = append(rows, inputStyle(idx).Width(34).Render(v.email.View()))
		idx++
	}
	rows = append(rows, inputStyle(idx).Width(34).Render(v.password.View()))
	idx++

	btn := s.Button
	if v.focusIdx == idx {
		btn = s.ButtonFocused
	}
	label := " Sign In "
	if v.registering {
		label = " Register "
	}
	if v.submitting {
		label = " ... "
	}
	rows = append(rows, "", btn.Render(label))

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBar.Render(v.errMsg))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+R: toggle register • Ctrl+C: quit"))

	form := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, form)
}
