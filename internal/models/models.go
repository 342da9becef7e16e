package models

import "time"

// Priority levels as the server reports them
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// UserSummary is the compact user representation embedded in other resources
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Label is a colored tag attached to tasks, scoped to a project
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Task represents a single task on a board
type Task struct {
	ID               int64         `json:"id"`
	ProjectID        *int64        `json:"project,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Status           Status        `json:"status"`
	Priority         Priority      `json:"priority"`
	Assignees        []UserSummary `json:"assignees"`
	DueDate          *time.Time    `json:"due_date,omitempty"`
	Labels           []Label       `json:"labels"`
	CommentsCount    int           `json:"comments_count"`
	AttachmentsCount int           `json:"attachments_count"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Project represents a task management project
type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Owner       *UserSummary  `json:"owner,omitempty"`
	Members     []UserSummary `json:"members,omitempty"`
	IsArchived  bool          `json:"is_archived"`
	TasksCount  int           `json:"tasks_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Sprint is a time-boxed iteration within a project
type Sprint struct {
	ID        int64      `json:"id"`
	ProjectID int64      `json:"project"`
	Name      string     `json:"name"`
	Goal      string     `json:"goal,omitempty"`
	State     string     `json:"state"` // planned, active, completed
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Team groups users for assignment and notification purposes
type Team struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	Members []UserSummary `json:"members,omitempty"`
}

// Notification is a message delivered to the current user
type Notification struct {
	ID        int64     `json:"id"`
	Verb      string    `json:"verb"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment represents a comment on a task
type Comment struct {
	ID        int64       `json:"id"`
	TaskID    int64       `json:"task"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// TimeEntry records time logged against a task
type TimeEntry struct {
	ID          int64       `json:"id"`
	TaskID      int64       `json:"task"`
	User        UserSummary `json:"user"`
	Minutes     int         `json:"minutes"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
