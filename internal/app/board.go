package app

import (
	"context"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/events"
)

// TaskList is the cached copy of one dashboard list. A refresh event marks it
// stale; the next read refetches.
type TaskList struct {
	completed bool
	svc       *TaskService

	mu     sync.Mutex
	tasks  []domain.Task
	loaded bool
	stale  bool

	unsubscribe func()
}

func newTaskList(completed bool, svc *TaskService) *TaskList {
	return &TaskList{completed: completed, svc: svc}
}

// Completed reports which filter the list shows.
func (l *TaskList) Completed() bool { return l.completed }

// Tasks returns the cached tasks, fetching them first when the list was never
// loaded or has been marked stale.
func (l *TaskList) Tasks(ctx context.Context, token string) ([]domain.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded || l.stale {
		tasks, err := l.svc.List(ctx, token, l.completed)
		if err != nil {
			return nil, err
		}
		l.tasks = tasks
		l.loaded = true
		l.stale = false
	}
	return l.snapshot(), nil
}

// Cached returns the tasks held in memory without fetching.
func (l *TaskList) Cached() []domain.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Stale reports whether the list will refetch on the next read.
func (l *TaskList) Stale() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stale
}

func (l *TaskList) snapshot() []domain.Task {
	out := make([]domain.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *TaskList) invalidate() {
	l.mu.Lock()
	l.stale = true
	l.mu.Unlock()
}

func (l *TaskList) remove(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.tasks[:0:0]
	for _, t := range l.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	l.tasks = kept
}

func (l *TaskList) rename(id int64, title string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].Title = title
		}
	}
}

// Board is the dashboard of one browsing context: the current and completed
// lists, both subscribed to the context's refresh topic.
type Board struct {
	topic     string
	svc       *TaskService
	bus       *events.Bus
	current   *TaskList
	completed *TaskList

	mu       sync.Mutex
	lastUsed time.Time
}

func newBoard(topic string, svc *TaskService, bus *events.Bus) *Board {
	b := &Board{
		topic:     topic,
		svc:       svc,
		bus:       bus,
		current:   newTaskList(false, svc),
		completed: newTaskList(true, svc),
	}
	for _, l := range b.Lists() {
		l.unsubscribe = bus.Subscribe(topic, func(events.Event) { l.invalidate() })
	}
	return b
}

// Topic returns the refresh topic of the board.
func (b *Board) Topic() string { return b.topic }

// Lists returns the current list followed by the completed list.
func (b *Board) Lists() []*TaskList {
	return []*TaskList{b.current, b.completed}
}

// List returns the list for the given filter.
func (b *Board) List(completed bool) *TaskList {
	if completed {
		return b.completed
	}
	return b.current
}

// Reload marks both lists stale so the next read refetches. A page view
// calls it so changes made elsewhere show up.
func (b *Board) Reload() {
	for _, l := range b.Lists() {
		l.invalidate()
	}
}

func (b *Board) publish(kind events.Kind, id int64) {
	b.bus.Publish(b.topic, events.Event{Kind: kind, TaskID: id})
}

// Create adds a task and signals both lists to refetch.
func (b *Board) Create(ctx context.Context, token, title string) (*domain.Task, error) {
	t, err := b.svc.Create(ctx, token, title)
	if err != nil {
		return nil, err
	}
	b.publish(events.TaskCreated, t.ID)
	return t, nil
}

// SetCompleted moves a task between the lists.
func (b *Board) SetCompleted(ctx context.Context, token string, id int64, completed bool) error {
	if err := b.svc.SetCompleted(ctx, token, id, completed); err != nil {
		return err
	}
	b.publish(events.TaskUpdated, id)
	return nil
}

// Rename updates a title upstream and in the cached lists.
func (b *Board) Rename(ctx context.Context, token string, id int64, title string) error {
	if err := b.svc.Rename(ctx, token, id, title); err != nil {
		return err
	}
	t, _ := validTitle(title)
	for _, l := range b.Lists() {
		l.rename(id, t)
	}
	b.publish(events.TaskUpdated, id)
	return nil
}

// Remove deletes a task upstream and drops it from the cached lists. A
// failed delete leaves both lists untouched.
func (b *Board) Remove(ctx context.Context, token string, id int64) error {
	if err := b.svc.Remove(ctx, token, id); err != nil {
		return err
	}
	for _, l := range b.Lists() {
		l.remove(id)
	}
	b.publish(events.TaskDeleted, id)
	return nil
}

func (b *Board) touch(now time.Time) {
	b.mu.Lock()
	b.lastUsed = now
	b.mu.Unlock()
}

func (b *Board) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed.Before(cutoff)
}

func (b *Board) close() {
	for _, l := range b.Lists() {
		if l.unsubscribe != nil {
			l.unsubscribe()
		}
	}
}

// Boards keeps one Board per browsing context.
type Boards struct {
	svc *TaskService
	bus *events.Bus
	now func() time.Time

	mu     sync.Mutex
	boards map[string]*Board
}

// NewBoards creates an empty board registry.
func NewBoards(svc *TaskService, bus *events.Bus) *Boards {
	return &Boards{
		svc:    svc,
		bus:    bus,
		now:    time.Now,
		boards: make(map[string]*Board),
	}
}

// Open returns the board for contextID, creating it on first use.
func (r *Boards) Open(contextID string) *Board {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.boards[contextID]
	if !ok {
		b = newBoard(contextID, r.svc, r.bus)
		r.boards[contextID] = b
	}
	b.touch(r.now())
	return b
}

// Close releases the board of contextID, e.g. on logout.
func (r *Boards) Close(contextID string) {
	r.mu.Lock()
	b, ok := r.boards[contextID]
	delete(r.boards, contextID)
	r.mu.Unlock()

	if ok {
		b.close()
	}
}

// Sweep releases boards unused for longer than idle and returns how many
// were released.
func (r *Boards) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Board
	for id, b := range r.boards {
		if b.idleSince(cutoff) {
			stale = append(stale, b)
			delete(r.boards, id)
		}
	}
	r.mu.Unlock()

	for _, b := range stale {
		b.close()
	}
	return len(stale)
}

// Len returns the number of open boards.
func (r *Boards) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}
