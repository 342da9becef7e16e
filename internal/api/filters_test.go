package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bmeyers/taskflow/internal/models"
)

func TestTaskFiltersOmitUnset(t *testing.T) {
	f := TaskFilters{Search: "x"}

	values := f.Values()
	assert.Equal(t, "search=x", values.Encode(), "unset filters must not appear at all")
}

func TestTaskFiltersSerializeAll(t *testing.T) {
	project := int64(3)
	assignee := int64(9)
	f := TaskFilters{
		Project:  &project,
		Assignee: &assignee,
		Status:   "in_progress",
		Priority: models.PriorityHigh,
		Search:   "login bug",
		Page:     2,
		PageSize: 50,
	}

	values := f.Values()
	assert.Equal(t, "3", values.Get("project"))
	assert.Equal(t, "9", values.Get("assignee"))
	assert.Equal(t, "in_progress", values.Get("status"))
	assert.Equal(t, "high", values.Get("priority"))
	assert.Equal(t, "login bug", values.Get("search"))
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "50", values.Get("page_size"))
}

func TestEmptyFiltersProduceNoQuery(t *testing.T) {
	assert.Empty(t, TaskFilters{}.Values().Encode())
	assert.Empty(t, ProjectFilters{}.Values().Encode())
	assert.Empty(t, ListFilters{}.Values().Encode())
}

func TestProjectFiltersArchivedFlag(t *testing.T) {
	archived := false
	f := ProjectFilters{Archived: &archived}

	values := f.Values()
	assert.Equal(t, "false", values.Get("is_archived"), "explicit false is still sent")
}
