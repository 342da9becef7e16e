package api

import (
	"net/url"
	"strconv"

	"github.com/bmeyers/taskflow/internal/models"
)

// params builds query parameters, dropping anything unset so the server
// never sees empty or literal-null values.
type params struct {
	values url.Values
}

func (p *params) str(key, value string) {
	if value == "" {
		return
	}
	if p.values == nil {
		p.values = url.Values{}
	}
	p.values.Set(key, value)
}

func (p *params) id(key string, value *int64) {
	if value == nil {
		return
	}
	p.str(key, strconv.FormatInt(*value, 10))
}

func (p *params) num(key string, value int) {
	if value == 0 {
		return
	}
	p.str(key, strconv.Itoa(value))
}

// TaskFilters narrows task list requests. Zero-valued fields are omitted
// from the query string entirely.
type TaskFilters struct {
	Project  *int64
	Sprint   *int64
	Status   string
	Assignee *int64
	Priority models.Priority
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// Values serializes the filters as query parameters.
func (f TaskFilters) Values() url.Values {
	var p params
	p.id("project", f.Project)
	p.id("sprint", f.Sprint)
	p.str("status", f.Status)
	p.id("assignee", f.Assignee)
	p.str("priority", string(f.Priority))
	p.str("search", f.Search)
	p.str("ordering", f.Ordering)
	p.num("page", f.Page)
	p.num("page_size", f.PageSize)
	return p.values
}

// ProjectFilters narrows project list requests.
type ProjectFilters struct {
	Search   string
	Archived *bool
	Page     int
	PageSize int
}

// Values serializes the filters as query parameters.
func (f ProjectFilters) Values() url.Values {
	var p params
	p.str("search", f.Search)
	if f.Archived != nil {
		p.str("is_archived", strconv.FormatBool(*f.Archived))
	}
	p.num("page", f.Page)
	p.num("page_size", f.PageSize)
	return p.values
}

// ListFilters is the shared page/search filter set used by the smaller
// resources (sprints, teams, notifications).
type ListFilters struct {
	Project  *int64
	Search   string
	Page     int
	PageSize int
}

// Values serializes the filters as query parameters.
func (f ListFilters) Values() url.Values {
	var p params
	p.id("project", f.Project)
	p.str("search", f.Search)
	p.num("page", f.Page)
	p.num("page_size", f.PageSize)
	return p.values
}
