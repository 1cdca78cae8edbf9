package client

import (
	"context"
	"sync"

	"github.com/taskdeck/taskdeck/internal/domain/entity"
)

// Fetcher loads one page of tasks; TaskTable does not care whether it is a
// real Client or a test double.
type Fetcher func(ctx context.Context, q ListQuery) (TaskListPage, error)

// DefaultPageSize matches the server's default page size.
const DefaultPageSize = 6

// TaskTable is the data-table controller: a state machine over page, sort,
// and filters. Any change triggers a re-fetch. In-flight fetches are not
// cancelled; instead each fetch carries a generation number and a response
// is applied only if no newer fetch has started since, so rows and totals
// are always replaced atomically from the latest request.
type TaskTable struct {
	fetch    Fetcher
	pageSize int

	mu             sync.Mutex
	page           int
	sortColumn     string
	sortDirection  string
	statusFilter   string
	priorityFilter string
	loading        bool
	rows           []entity.Task
	totalRows      int
	lastErr        error
	gen            uint64

	// onUpdate fires after a fetch settles (applied or discarded as stale).
	onUpdate func()
}

func NewTaskTable(fetch Fetcher, pageSize int) *TaskTable {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &TaskTable{
		fetch:         fetch,
		pageSize:      pageSize,
		page:          1,
		sortColumn:    "status",
		sortDirection: "asc",
	}
}

// OnUpdate registers a callback invoked whenever a fetch settles. Intended
// for render hooks and tests.
func (t *TaskTable) OnUpdate(fn func()) {
	t.mu.Lock()
	t.onUpdate = fn
	t.mu.Unlock()
}

// Refresh re-runs the current query, e.g. after a create or delete.
func (t *TaskTable) Refresh() {
	t.mu.Lock()
	t.reloadLocked()
	t.mu.Unlock()
}

// SetPage moves to the given page (clamped to >= 1) and re-fetches.
func (t *TaskTable) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	t.mu.Lock()
	t.page = p
	t.reloadLocked()
	t.mu.Unlock()
}

// NextPage advances one page if the totals say there is one.
func (t *TaskTable) NextPage() {
	t.mu.Lock()
	if t.page*t.pageSize < t.totalRows {
		t.page++
		t.reloadLocked()
	}
	t.mu.Unlock()
}

// PrevPage goes back one page if possible.
func (t *TaskTable) PrevPage() {
	t.mu.Lock()
	if t.page > 1 {
		t.page--
		t.reloadLocked()
	}
	t.mu.Unlock()
}

// SetSort changes the sort spec and re-fetches from page 1.
func (t *TaskTable) SetSort(column, direction string) {
	t.mu.Lock()
	t.sortColumn = column
	t.sortDirection = direction
	t.page = 1
	t.reloadLocked()
	t.mu.Unlock()
}

// SetStatusFilter changes the status filter ("" clears it) and re-fetches
// from page 1.
func (t *TaskTable) SetStatusFilter(status string) {
	t.mu.Lock()
	t.statusFilter = status
	t.page = 1
	t.reloadLocked()
	t.mu.Unlock()
}

// SetPriorityFilter changes the priority filter ("" clears it) and
// re-fetches from page 1.
func (t *TaskTable) SetPriorityFilter(priority string) {
	t.mu.Lock()
	t.priorityFilter = priority
	t.page = 1
	t.reloadLocked()
	t.mu.Unlock()
}

// reloadLocked issues a fetch for the current state. Caller holds t.mu.
func (t *TaskTable) reloadLocked() {
	t.gen++
	gen := t.gen
	t.loading = true
	q := ListQuery{
		Page:           t.page,
		PageSize:       t.pageSize,
		SortColumn:     t.sortColumn,
		SortDirection:  t.sortDirection,
		StatusFilter:   t.statusFilter,
		PriorityFilter: t.priorityFilter,
	}

	go func() {
		page, err := t.fetch(context.Background(), q)

		t.mu.Lock()
		stale := gen != t.gen
		if !stale {
			t.loading = false
			if err != nil {
				t.lastErr = err
			} else {
				t.lastErr = nil
				t.rows = page.Tasks
				t.totalRows = page.TotalTasks
			}
		}
		fn := t.onUpdate
		t.mu.Unlock()

		if fn != nil {
			fn()
		}
	}()
}

// Rows returns the currently rendered rows.
func (t *TaskTable) Rows() []entity.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := make([]entity.Task, len(t.rows))
	copy(rows, t.rows)
	return rows
}

func (t *TaskTable) TotalRows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalRows
}

func (t *TaskTable) Page() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

func (t *TaskTable) PageSize() int { return t.pageSize }

func (t *TaskTable) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Err returns the error from the latest settled fetch, if any.
func (t *TaskTable) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// CanGoNext reports whether another page of results exists.
func (t *TaskTable) CanGoNext() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page*t.pageSize < t.totalRows
}

// CanGoPrevious reports whether the table can page backwards.
func (t *TaskTable) CanGoPrevious() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page > 1
}
