package board

import (
	"context"
	"testing"

	"github.com/kanbo/kanbo-go/internal/task"
)

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "t4", Title: "Newest", Status: task.StatusBacklog},
		{ID: "t3", Title: "Working", Status: task.StatusInProgress},
		{ID: "t2", Title: "Older", Status: task.StatusBacklog},
		{ID: "t1", Title: "Shipped", Status: task.StatusDone},
	}
}

func TestColumnFor(t *testing.T) {
	tasks := sampleTasks()

	t.Run("filters by status preserving list order", func(t *testing.T) {
		col := ColumnFor(tasks, task.StatusBacklog)
		if len(col.Tasks) != 2 {
			t.Fatalf("expected 2 backlog tasks, got %d", len(col.Tasks))
		}
		if col.Tasks[0].ID != "t4" || col.Tasks[1].ID != "t2" {
			t.Errorf("order not preserved: %+v", col.Tasks)
		}
		if col.IsEmpty() {
			t.Error("column with real tasks should not be empty")
		}
	})

	t.Run("empty column gets exactly one placeholder", func(t *testing.T) {
		col := ColumnFor(nil, task.StatusDone)
		if len(col.Tasks) != 1 {
			t.Fatalf("expected 1 placeholder, got %d tasks", len(col.Tasks))
		}
		p := col.Tasks[0]
		if p.Status != task.StatusEmpty {
			t.Errorf("placeholder status: got %q, want %q", p.Status, task.StatusEmpty)
		}
		if !p.IsPlaceholder() {
			t.Error("placeholder should report IsPlaceholder")
		}
		if p.ID != "" {
			t.Errorf("placeholder must not carry an id, got %q", p.ID)
		}
		if !col.IsEmpty() {
			t.Error("placeholder-only column should report IsEmpty")
		}
	})

	t.Run("placeholder is excluded from statistics", func(t *testing.T) {
		col := ColumnFor(nil, task.StatusDone)
		stats := Collect(col.Tasks)
		if stats.Total() != 0 {
			t.Errorf("placeholder counted in stats: %+v", stats)
		}
	})
}

func TestColumns(t *testing.T) {
	cols := Columns(sampleTasks())
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	wantOrder := []task.Status{task.StatusBacklog, task.StatusInProgress, task.StatusDone}
	for i, want := range wantOrder {
		if cols[i].Status != want {
			t.Errorf("column %d: got %q, want %q", i, cols[i].Status, want)
		}
	}
}

// recordingWriter captures UpdateStatus calls.
type recordingWriter struct {
	ids      []string
	statuses []task.Status
}

func (r *recordingWriter) UpdateStatus(ctx context.Context, id string, status task.Status) {
	r.ids = append(r.ids, id)
	r.statuses = append(r.statuses, status)
}

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("drag then drop updates the store", func(t *testing.T) {
		w := &recordingWriter{}
		c := NewController(w)

		c.BeginDrag("t3")
		if c.Dragging() != "t3" {
			t.Fatalf("Dragging: got %q, want t3", c.Dragging())
		}
		if !c.Drop(ctx, task.StatusDone) {
			t.Fatal("expected drop to succeed")
		}
		if c.Dragging() != "" {
			t.Error("drop should release the carried task")
		}
		if len(w.ids) != 1 || w.ids[0] != "t3" || w.statuses[0] != task.StatusDone {
			t.Errorf("unexpected store calls: ids=%v statuses=%v", w.ids, w.statuses)
		}
	})

	t.Run("drop without a drag is a no-op", func(t *testing.T) {
		w := &recordingWriter{}
		c := NewController(w)
		if c.Drop(ctx, task.StatusDone) {
			t.Error("expected drop to fail with nothing carried")
		}
		if len(w.ids) != 0 {
			t.Errorf("store should not be called: %v", w.ids)
		}
	})

	t.Run("placeholder cannot be picked up", func(t *testing.T) {
		w := &recordingWriter{}
		c := NewController(w)
		c.BeginDrag(Placeholder().ID)
		if c.Dragging() != "" {
			t.Error("placeholder pick-up should be refused")
		}
	})

	t.Run("drop onto a non-real bucket keeps carrying", func(t *testing.T) {
		w := &recordingWriter{}
		c := NewController(w)
		c.BeginDrag("t1")
		if c.Drop(ctx, task.StatusEmpty) {
			t.Error("drop onto the placeholder bucket should fail")
		}
		if c.Dragging() != "t1" {
			t.Error("failed drop should keep the task carried")
		}
		if len(w.ids) != 0 {
			t.Errorf("store should not be called: %v", w.ids)
		}
	})

	t.Run("cancel releases without a store call", func(t *testing.T) {
		w := &recordingWriter{}
		c := NewController(w)
		c.BeginDrag("t1")
		c.Cancel()
		if c.Dragging() != "" {
			t.Error("cancel should release the carried task")
		}
		if len(w.ids) != 0 {
			t.Errorf("store should not be called: %v", w.ids)
		}
	})
}

// The controller is the board's drag source and drop target.
var (
	_ DragSource = (*Controller)(nil)
	_ DropTarget = (*Controller)(nil)
)
