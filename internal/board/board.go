// Package board derives Kanban columns from a flat task list and applies
// optimistic task moves ahead of the server round-trip. It is a pure state
// machine with no UI or network dependencies; the caller issues the
// change-status mutation and reports the outcome back via Settle/Revert.
package board

import (
	"github.com/bmeyers/taskflow/internal/models"
)

// StatusOverflow is the column for tasks whose status matches no known
// column. Tasks are never dropped from the board.
const StatusOverflow models.StatusType = "uncategorized"

// State of the board relative to the server.
type State int

const (
	// Settled means the columns match the last known-good task list.
	Settled State = iota
	// OptimisticPending means at least one local move is awaiting its
	// mutation result.
	OptimisticPending
)

// Column is one status lane, derived from the task list.
type Column struct {
	ID    models.StatusType
	Title string
	Color string
	Tasks []models.Task
}

// Move records one optimistic relocation so it can be settled or reverted.
type Move struct {
	TaskID    int64
	From      models.StatusType
	To        models.StatusType
	fromIndex int
}

// Board holds the column partition of a single task list.
type Board struct {
	columns []Column
	pending int
}

// fixedColumns are always present, in this order, even when empty. Extra
// server statuses are appended in first-seen order.
var fixedColumns = []Column{
	{ID: models.StatusTodo, Title: "To Do", Color: "#89b4fa"},
	{ID: models.StatusInProgress, Title: "In Progress", Color: "#f9e2af"},
	{ID: models.StatusInReview, Title: "In Review", Color: "#cba6f7"},
	{ID: models.StatusDone, Title: "Done", Color: "#a6e3a1"},
}

// New derives a settled board from a task list.
func New(tasks []models.Task) *Board {
	b := &Board{}
	b.Reload(tasks)
	return b
}

// Reload re-derives the columns from a task list, discarding any pending
// optimistic state. Call it when the underlying cached list changes.
func (b *Board) Reload(tasks []models.Task) {
	columns := make([]Column, len(fixedColumns))
	copy(columns, fixedColumns)
	for i := range columns {
		columns[i].Tasks = nil
	}

	index := make(map[models.StatusType]int, len(columns))
	for i, col := range columns {
		index[col.ID] = i
	}

	overflow := -1
	for _, task := range tasks {
		status := task.Status.Type()
		i, ok := index[status]
		if !ok && status != "" {
			// New status from the server: appended as its own column.
			columns = append(columns, Column{
				ID:    status,
				Title: task.Status.Title(),
				Color: task.Status.Color,
			})
			i = len(columns) - 1
			index[status] = i
			ok = true
		}
		if !ok {
			if overflow == -1 {
				columns = append(columns, Column{ID: StatusOverflow, Title: "Uncategorized"})
				overflow = len(columns) - 1
			}
			i = overflow
		}
		columns[i].Tasks = append(columns[i].Tasks, task)
	}

	b.columns = columns
	b.pending = 0
}

// Columns returns the current partition.
func (b *Board) Columns() []Column {
	return b.columns
}

// Column returns the column with the given ID, or nil.
func (b *Board) Column(id models.StatusType) *Column {
	for i := range b.columns {
		if b.columns[i].ID == id {
			return &b.columns[i]
		}
	}
	return nil
}

// State reports whether any optimistic move is still awaiting its mutation.
func (b *Board) State() State {
	if b.pending > 0 {
		return OptimisticPending
	}
	return Settled
}

// MoveTask relocates a task between columns synchronously, before the
// change-status mutation resolves. It returns false (and changes nothing)
// when from equals to or the task is not currently in the from column; no
// mutation should be issued in that case.
//
// A second move on the same task before the first settles is applied
// against the current optimistic state, so moves compose.
func (b *Board) MoveTask(taskID int64, from, to models.StatusType) (Move, bool) {
	if from == to {
		return Move{}, false
	}
	src := b.Column(from)
	dst := b.Column(to)
	if src == nil || dst == nil {
		return Move{}, false
	}

	idx := -1
	for i := range src.Tasks {
		if src.Tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Move{}, false
	}

	task := src.Tasks[idx]
	src.Tasks = append(src.Tasks[:idx], src.Tasks[idx+1:]...)
	task.Status = models.PlainStatus(to)
	dst.Tasks = append(dst.Tasks, task)

	b.pending++
	return Move{TaskID: taskID, From: from, To: to, fromIndex: idx}, true
}

// Settle accepts a move after its mutation succeeded. The optimistic state
// already matches, so only the pending count changes.
func (b *Board) Settle(Move) {
	if b.pending > 0 {
		b.pending--
	}
}

// Revert undoes a move after its mutation failed, returning the task to
// its pre-move column at its old position. A later move that already
// relocated the same task elsewhere supersedes the revert; membership of
// every other task is untouched either way.
func (b *Board) Revert(m Move) {
	if b.pending > 0 {
		b.pending--
	}

	dst := b.Column(m.To)
	src := b.Column(m.From)
	if dst == nil || src == nil {
		return
	}

	idx := -1
	for i := range dst.Tasks {
		if dst.Tasks[i].ID == m.TaskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Task has moved on since; nothing to undo here.
		return
	}

	task := dst.Tasks[idx]
	dst.Tasks = append(dst.Tasks[:idx], dst.Tasks[idx+1:]...)
	task.Status = models.PlainStatus(m.From)

	at := m.fromIndex
	if at > len(src.Tasks) {
		at = len(src.Tasks)
	}
	src.Tasks = append(src.Tasks[:at], append([]models.Task{task}, src.Tasks[at:]...)...)
}

// TaskIDs returns the IDs across all columns, in column order. Used to
// check the partition against the source list.
func (b *Board) TaskIDs() []int64 {
	var ids []int64
	for _, col := range b.columns {
		for _, t := range col.Tasks {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
