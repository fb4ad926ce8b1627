// Package board is the view glue between the task store and a renderer:
// status-filtered columns, the empty-column placeholder, derived statistics,
// and the drag-and-drop gesture boundary.
package board

import (
	"context"

	"github.com/kanbo/kanbo-go/internal/task"
)

// Placeholder is the synthetic card substituted into a column with no real
// tasks so it is not rendered blank. It carries no id, is excluded from all
// statistics, and must never reach the store or the persisted envelope.
func Placeholder() task.Task {
	return task.Task{
		Title:  "No tasks",
		Status: task.StatusEmpty,
	}
}

// Column holds the renderable cards for one status bucket.
type Column struct {
	Status task.Status
	Tasks  []task.Task
}

// ColumnFor filters tasks down to the given status, preserving list order.
// An empty result is replaced by a single placeholder card.
func ColumnFor(tasks []task.Task, status task.Status) Column {
	col := Column{Status: status}
	for _, t := range tasks {
		if t.Status == status {
			col.Tasks = append(col.Tasks, t)
		}
	}
	if len(col.Tasks) == 0 {
		col.Tasks = []task.Task{Placeholder()}
	}
	return col
}

// Columns returns the three board columns in display order.
func Columns(tasks []task.Task) []Column {
	statuses := task.RealStatuses()
	cols := make([]Column, 0, len(statuses))
	for _, status := range statuses {
		cols = append(cols, ColumnFor(tasks, status))
	}
	return cols
}

// IsEmpty reports whether the column holds only the placeholder.
func (c Column) IsEmpty() bool {
	return len(c.Tasks) == 1 && c.Tasks[0].IsPlaceholder()
}

// StatusWriter is what the drag controller needs from the store.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id string, status task.Status)
}

// DragSource begins a drag gesture carrying a task id.
type DragSource interface {
	BeginDrag(id string)
}

// DropTarget accepts a drop of the dragged item onto a status bucket.
type DropTarget interface {
	Drop(ctx context.Context, target task.Status) bool
}

// Controller interprets drag gestures as store updates. It is the only
// consumer of the drag source/drop target boundary; any renderer (TUI,
// tests) drives it with ids and target buckets, never with tasks.
type Controller struct {
	writer   StatusWriter
	dragging string
}

// NewController builds a drag controller over the given status writer.
func NewController(writer StatusWriter) *Controller {
	return &Controller{writer: writer}
}

// BeginDrag picks up the task with the given id. Picking up the placeholder
// (empty id) is refused.
func (c *Controller) BeginDrag(id string) {
	if id == "" {
		return
	}
	c.dragging = id
}

// Dragging returns the id of the carried task, or "" if none.
func (c *Controller) Dragging() string {
	return c.dragging
}

// Cancel puts the carried task back without a store update.
func (c *Controller) Cancel() {
	c.dragging = ""
}

// Drop releases the carried task onto the target column, updating its
// status in the store. It reports whether a drop actually happened.
func (c *Controller) Drop(ctx context.Context, target task.Status) bool {
	if c.dragging == "" || !target.Real() {
		return false
	}
	id := c.dragging
	c.dragging = ""
	c.writer.UpdateStatus(ctx, id, target)
	return true
}
