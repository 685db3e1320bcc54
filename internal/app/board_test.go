package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/events"
)

// fakeTasks is a TaskAPI holding tasks in memory and counting list calls per
// filter.
type fakeTasks struct {
	mu     sync.Mutex
	tasks  []domain.Task
	nextID int64
	lists  map[bool]int
}

func newFakeTasks(tasks ...domain.Task) *fakeTasks {
	return &fakeTasks{tasks: tasks, nextID: 100, lists: map[bool]int{}}
}

func (f *fakeTasks) api() *mockTaskAPI {
	return &mockTaskAPI{
		listFn: func(ctx context.Context, token string, completed bool) ([]domain.Task, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.lists[completed]++
			out := []domain.Task{}
			for _, t := range f.tasks {
				if t.Completed == completed {
					out = append(out, t)
				}
			}
			return out, nil
		},
		createFn: func(ctx context.Context, token, title string) (*domain.Task, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.nextID++
			t := domain.Task{ID: f.nextID, Title: title}
			f.tasks = append(f.tasks, t)
			return &t, nil
		},
		updateFn: func(ctx context.Context, token string, id int64, patch domain.TaskPatch) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i := range f.tasks {
				if f.tasks[i].ID == id {
					if patch.Completed != nil {
						f.tasks[i].Completed = *patch.Completed
					}
					if patch.Title != nil {
						f.tasks[i].Title = *patch.Title
					}
					return nil
				}
			}
			return &domain.RejectionError{Op: "update task", Status: 404}
		},
		deleteFn: func(ctx context.Context, token string, id int64) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i := range f.tasks {
				if f.tasks[i].ID == id {
					f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
					return nil
				}
			}
			return &domain.RejectionError{Op: "delete task", Status: 404}
		},
	}
}

func (f *fakeTasks) listCalls(completed bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[completed]
}

func loadBoard(t *testing.T, b *Board) {
	t.Helper()
	for _, l := range b.Lists() {
		if _, err := l.Tasks(context.Background(), "tok"); err != nil {
			t.Fatalf("load list: %v", err)
		}
	}
}

func TestBoard_LoadsBothFilters(t *testing.T) {
	fake := newFakeTasks(
		domain.Task{ID: 1, Title: "a"},
		domain.Task{ID: 2, Title: "b", Completed: true},
	)
	boards := NewBoards(NewTaskService(fake.api()), events.NewBus())
	b := boards.Open("ctx-1")
	loadBoard(t, b)

	if fake.listCalls(false) != 1 || fake.listCalls(true) != 1 {
		t.Fatalf("expected one fetch per filter, got %v", fake.lists)
	}
	if got := b.List(false).Cached(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("unexpected current list %+v", got)
	}
	if got := b.List(true).Cached(); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("unexpected completed list %+v", got)
	}

	// A second read is served from cache.
	loadBoard(t, b)
	if fake.listCalls(false) != 1 {
		t.Errorf("expected cached read, got %d fetches", fake.listCalls(false))
	}
}

func TestBoard_ReloadRefetchesChangesMadeElsewhere(t *testing.T) {
	fake := newFakeTasks(domain.Task{ID: 1, Title: "a"})
	boards := NewBoards(NewTaskService(fake.api()), events.NewBus())
	b := boards.Open("ctx-1")
	loadBoard(t, b)

	fake.mu.Lock()
	fake.tasks = append(fake.tasks, domain.Task{ID: 2, Title: "added on another device"})
	fake.mu.Unlock()

	b.Reload()
	if !b.List(false).Stale() || !b.List(true).Stale() {
		t.Fatal("expected both lists stale after Reload")
	}
	loadBoard(t, b)

	if fake.listCalls(false) != 2 || fake.listCalls(true) != 2 {
		t.Fatalf("expected a second fetch per filter, got %v", fake.lists)
	}
	if got := b.List(false).Cached(); len(got) != 2 {
		t.Errorf("expected the task added elsewhere, got %+v", got)
	}
}

func TestBoard_ToggleRefreshesBothLists(t *testing.T) {
	fake := newFakeTasks(domain.Task{ID: 1, Title: "a"})
	b := NewBoards(NewTaskService(fake.api()), events.NewBus()).Open("ctx-1")
	loadBoard(t, b)

	if err := b.SetCompleted(context.Background(), "tok", 1, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	for _, l := range b.Lists() {
		if !l.Stale() {
			t.Errorf("expected list completed=%v stale", l.Completed())
		}
	}

	loadBoard(t, b)
	if len(b.List(false).Cached()) != 0 {
		t.Errorf("expected task to leave the current list")
	}
	if got := b.List(true).Cached(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("expected task in completed list, got %+v", got)
	}
	if fake.listCalls(false) != 2 || fake.listCalls(true) != 2 {
		t.Errorf("expected a refetch per filter, got %v", fake.lists)
	}
}

func TestBoard_CreatePublishes(t *testing.T) {
	fake := newFakeTasks()
	bus := events.NewBus()
	b := NewBoards(NewTaskService(fake.api()), bus).Open("ctx-1")
	loadBoard(t, b)

	var got []events.Event
	unsub := bus.Subscribe("ctx-1", func(e events.Event) { got = append(got, e) })
	defer unsub()

	task, err := b.Create(context.Background(), "tok", "new")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(got) != 1 || got[0].Kind != events.TaskCreated || got[0].TaskID != task.ID {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestBoard_RemoveUnknownIDLeavesListUnchanged(t *testing.T) {
	fake := newFakeTasks(domain.Task{ID: 1, Title: "a"}, domain.Task{ID: 2, Title: "b"})
	bus := events.NewBus()
	b := NewBoards(NewTaskService(fake.api()), bus).Open("ctx-1")
	loadBoard(t, b)

	published := 0
	unsub := bus.Subscribe("ctx-1", func(events.Event) { published++ })
	defer unsub()

	if err := b.Remove(context.Background(), "tok", 99); err == nil {
		t.Fatal("expected error for unknown id")
	}
	if got := b.List(false).Cached(); len(got) != 2 {
		t.Errorf("expected list unchanged, got %+v", got)
	}
	if published != 0 {
		t.Errorf("failed delete must not publish, got %d", published)
	}
	if b.List(false).Stale() {
		t.Error("failed delete must not mark the list stale")
	}
}

func TestBoard_RemoveAndRenamePatchCache(t *testing.T) {
	fake := newFakeTasks(domain.Task{ID: 1, Title: "a"}, domain.Task{ID: 2, Title: "b"})
	b := NewBoards(NewTaskService(fake.api()), events.NewBus()).Open("ctx-1")
	loadBoard(t, b)

	if err := b.Rename(context.Background(), "tok", 2, "  renamed "); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := b.Remove(context.Background(), "tok", 1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got := b.List(false).Cached()
	if len(got) != 1 || got[0].ID != 2 || got[0].Title != "renamed" {
		t.Fatalf("unexpected cached list %+v", got)
	}

	// Deleting the same id twice fails the second time.
	if err := b.Remove(context.Background(), "tok", 1); err == nil {
		t.Error("expected second delete to fail")
	}
}

func TestBoards_IsolatedPerContext(t *testing.T) {
	fake := newFakeTasks(domain.Task{ID: 1, Title: "a"})
	boards := NewBoards(NewTaskService(fake.api()), events.NewBus())
	one, two := boards.Open("one"), boards.Open("two")
	loadBoard(t, one)
	loadBoard(t, two)

	if _, err := one.Create(context.Background(), "tok", "x"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !one.List(false).Stale() {
		t.Error("expected own list stale")
	}
	if two.List(false).Stale() {
		t.Error("other context must not be refreshed")
	}
	if boards.Open("one") != one {
		t.Error("expected the same board on reopen")
	}
}

func TestBoards_CloseAndSweepUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	boards := NewBoards(NewTaskService(newFakeTasks().api()), bus)
	now := time.Unix(1000, 0)
	boards.now = func() time.Time { return now }

	boards.Open("a")
	boards.Open("b")
	if bus.Subscribers("a") != 2 {
		t.Fatalf("expected two subscribers, got %d", bus.Subscribers("a"))
	}

	boards.Close("a")
	if bus.Subscribers("a") != 0 || boards.Len() != 1 {
		t.Fatalf("expected board a released")
	}

	now = now.Add(time.Hour)
	boards.Open("c")
	if n := boards.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("expected one board swept, got %d", n)
	}
	if bus.Subscribers("b") != 0 {
		t.Error("expected swept board unsubscribed")
	}
	if boards.Len() != 1 {
		t.Errorf("expected board c to remain, got %d", boards.Len())
	}
}
