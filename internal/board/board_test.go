package board

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmeyers/taskflow/internal/models"
)

func task(id int64, status models.StatusType) models.Task {
	return models.Task{ID: id, Title: "task", Status: models.PlainStatus(status)}
}

func taskIDs(tasks []models.Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// requirePartition checks that the board's columns hold exactly the given
// IDs, with no duplicates.
func requirePartition(t *testing.T, b *Board, want []int64) {
	t.Helper()

	got := b.TaskIDs()
	seen := make(map[int64]bool, len(got))
	for _, id := range got {
		require.False(t, seen[id], "task %d appears in more than one column", id)
		seen[id] = true
	}

	sortedGot := append([]int64(nil), got...)
	sortedWant := append([]int64(nil), want...)
	sort.Slice(sortedGot, func(i, j int) bool { return sortedGot[i] < sortedGot[j] })
	sort.Slice(sortedWant, func(i, j int) bool { return sortedWant[i] < sortedWant[j] })
	require.Equal(t, sortedWant, sortedGot)
}

func TestNewDerivesFixedColumns(t *testing.T) {
	b := New([]models.Task{
		task(1, models.StatusTodo),
		task(2, models.StatusDone),
		task(3, models.StatusTodo),
	})

	columns := b.Columns()
	require.Len(t, columns, 4)
	assert.Equal(t, models.StatusTodo, columns[0].ID)
	assert.Equal(t, models.StatusInProgress, columns[1].ID)
	assert.Equal(t, models.StatusInReview, columns[2].ID)
	assert.Equal(t, models.StatusDone, columns[3].ID)

	assert.Equal(t, []int64{1, 3}, taskIDs(columns[0].Tasks))
	assert.Empty(t, columns[1].Tasks)
	assert.Equal(t, []int64{2}, taskIDs(columns[3].Tasks))

	requirePartition(t, b, []int64{1, 2, 3})
	assert.Equal(t, Settled, b.State())
}

func TestExtraServerStatusGetsOwnColumn(t *testing.T) {
	b := New([]models.Task{
		task(1, models.StatusTodo),
		{ID: 2, Status: models.DetailedStatus(7, "Blocked", "blocked", "#ff0000")},
	})

	columns := b.Columns()
	require.Len(t, columns, 5)
	assert.Equal(t, models.StatusType("blocked"), columns[4].ID)
	assert.Equal(t, "Blocked", columns[4].Title)
	assert.Equal(t, []int64{2}, taskIDs(columns[4].Tasks))
}

func TestUnknownStatusLandsInOverflow(t *testing.T) {
	// A task with an empty status type must not be dropped.
	b := New([]models.Task{
		task(1, models.StatusTodo),
		{ID: 2, Title: "lost"},
	})

	col := b.Column(StatusOverflow)
	require.NotNil(t, col)
	assert.Equal(t, []int64{2}, taskIDs(col.Tasks))
	requirePartition(t, b, []int64{1, 2})
}

func TestMoveTaskOptimistic(t *testing.T) {
	b := New([]models.Task{
		task(1, models.StatusTodo),
		task(2, models.StatusTodo),
	})

	// The move is visible immediately, before any mutation resolves.
	move, ok := b.MoveTask(1, models.StatusTodo, models.StatusInProgress)
	require.True(t, ok)

	assert.Equal(t, []int64{2}, taskIDs(b.Column(models.StatusTodo).Tasks))
	assert.Equal(t, []int64{1}, taskIDs(b.Column(models.StatusInProgress).Tasks))
	assert.Equal(t, models.StatusInProgress, b.Column(models.StatusInProgress).Tasks[0].Status.Type())
	assert.Equal(t, OptimisticPending, b.State())
	requirePartition(t, b, []int64{1, 2})

	b.Settle(move)
	assert.Equal(t, Settled, b.State())
	assert.Equal(t, []int64{2}, taskIDs(b.Column(models.StatusTodo).Tasks))
	assert.Equal(t, []int64{1}, taskIDs(b.Column(models.StatusInProgress).Tasks))
}

func TestMoveTaskRejectsInvalidMoves(t *testing.T) {
	b := New([]models.Task{task(1, models.StatusTodo)})

	_, ok := b.MoveTask(1, models.StatusTodo, models.StatusTodo)
	assert.False(t, ok, "same-column move must be a no-op")

	_, ok = b.MoveTask(1, models.StatusDone, models.StatusTodo)
	assert.False(t, ok, "task is not in the from column")

	_, ok = b.MoveTask(99, models.StatusTodo, models.StatusDone)
	assert.False(t, ok, "unknown task")

	assert.Equal(t, Settled, b.State())
	requirePartition(t, b, []int64{1})
}

func TestRevertRestoresPreMoveColumn(t *testing.T) {
	b := New([]models.Task{
		task(1, models.StatusTodo),
		task(2, models.StatusTodo),
		task(3, models.StatusDone),
	})

	move, ok := b.MoveTask(1, models.StatusTodo, models.StatusDone)
	require.True(t, ok)

	b.Revert(move)

	assert.Equal(t, []int64{1, 2}, taskIDs(b.Column(models.StatusTodo).Tasks),
		"task returns to its old position")
	assert.Equal(t, []int64{3}, taskIDs(b.Column(models.StatusDone).Tasks))
	assert.Equal(t, Settled, b.State())
	requirePartition(t, b, []int64{1, 2, 3})
}

func TestMovesCompose(t *testing.T) {
	b := New([]models.Task{task(1, models.StatusTodo)})

	first, ok := b.MoveTask(1, models.StatusTodo, models.StatusInProgress)
	require.True(t, ok)

	// Second move before the first settles applies to the optimistic state.
	second, ok := b.MoveTask(1, models.StatusInProgress, models.StatusDone)
	require.True(t, ok)

	assert.Equal(t, []int64{1}, taskIDs(b.Column(models.StatusDone).Tasks))

	// The second move superseded the first's placement, so reverting the
	// first changes nothing.
	b.Revert(first)
	assert.Equal(t, []int64{1}, taskIDs(b.Column(models.StatusDone).Tasks))
	requirePartition(t, b, []int64{1})

	b.Settle(second)
	assert.Equal(t, Settled, b.State())
}

func TestMoveScenario(t *testing.T) {
	b := New([]models.Task{
		task(1, models.StatusTodo),
		task(2, models.StatusTodo),
	})

	move, ok := b.MoveTask(1, models.StatusTodo, models.StatusInProgress)
	require.True(t, ok)

	assert.Equal(t, []int64{2}, taskIDs(b.Column(models.StatusTodo).Tasks))
	assert.Equal(t, []int64{1}, taskIDs(b.Column(models.StatusInProgress).Tasks))

	// Server accepted the mutation: columns stay exactly as they are.
	b.Settle(move)
	assert.Equal(t, []int64{2}, taskIDs(b.Column(models.StatusTodo).Tasks))
	assert.Equal(t, []int64{1}, taskIDs(b.Column(models.StatusInProgress).Tasks))
	assert.Empty(t, b.Column(models.StatusInReview).Tasks)
	assert.Empty(t, b.Column(models.StatusDone).Tasks)
}

func TestPartitionInvariantUnderMoveSequences(t *testing.T) {
	tasks := []models.Task{
		task(1, models.StatusTodo),
		task(2, models.StatusTodo),
		task(3, models.StatusInProgress),
		task(4, models.StatusInReview),
		task(5, models.StatusDone),
	}
	all := []int64{1, 2, 3, 4, 5}

	b := New(tasks)

	moves := []struct {
		id       int64
		from, to models.StatusType
	}{
		{1, models.StatusTodo, models.StatusInProgress},
		{3, models.StatusInProgress, models.StatusDone},
		{1, models.StatusInProgress, models.StatusInReview},
		{5, models.StatusDone, models.StatusTodo},
		{4, models.StatusInReview, models.StatusDone},
	}

	var applied []Move
	for _, m := range moves {
		move, ok := b.MoveTask(m.id, m.from, m.to)
		require.True(t, ok, "move %+v", m)
		applied = append(applied, move)
		requirePartition(t, b, all)
	}

	// Settle some, revert the rest; the partition holds throughout.
	for i, move := range applied {
		if i%2 == 0 {
			b.Settle(move)
		} else {
			b.Revert(move)
		}
		requirePartition(t, b, all)
	}
	assert.Equal(t, Settled, b.State())
}

func TestReloadResetsPendingState(t *testing.T) {
	b := New([]models.Task{task(1, models.StatusTodo)})

	_, ok := b.MoveTask(1, models.StatusTodo, models.StatusDone)
	require.True(t, ok)
	require.Equal(t, OptimisticPending, b.State())

	b.Reload([]models.Task{task(1, models.StatusDone), task(2, models.StatusTodo)})

	assert.Equal(t, Settled, b.State())
	requirePartition(t, b, []int64{1, 2})
	assert.Equal(t, []int64{1}, taskIDs(b.Column(models.StatusDone).Tasks))
}
