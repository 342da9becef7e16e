package views

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/bmeyers/taskflow/internal/models"
)

func TestRenderCardTruncatesMultibyteTitlesCleanly(t *testing.T) {
	v := NewBoardView(nil, models.Project{ID: 1, Name: "proj"})

	task := models.Task{
		ID:       1,
		Title:    "日本語のとても長いタスク名でカードを試す",
		Status:   models.PlainStatus(models.StatusTodo),
		Priority: models.PriorityHigh,
	}

	for width := 6; width <= 30; width++ {
		card := v.renderCard(task, width, false)
		assert.True(t, utf8.ValidString(card), "width %d produced invalid UTF-8", width)
		assert.NotContains(t, card, string(utf8.RuneError), "width %d split a rune", width)
	}
}

func TestRenderCardKeepsShortTitlesIntact(t *testing.T) {
	v := NewBoardView(nil, models.Project{ID: 1, Name: "proj"})

	task := models.Task{
		ID:     2,
		Title:  "short",
		Status: models.PlainStatus(models.StatusTodo),
	}

	card := v.renderCard(task, 30, false)
	assert.Contains(t, card, "short")
	assert.False(t, strings.Contains(card, "…"))
}
