package mock

import (
	"context"
	"sync"

	goboot "github.com/centraunit/goboot"
)

// Recorder is a shared ordered execution log for orchestration tests.
type Recorder struct {
	mu     sync.Mutex
	events []string
	count  int
}

func (r *Recorder) Note(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.count++
}

func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// SystemInit is a SystemInitializer that records its execution and can be
// made to fail.
type SystemInit struct {
	Name string
	Rec  *Recorder
	Fail error
}

func (s *SystemInit) Run(ctx context.Context, reg goboot.Registry) error {
	if s.Rec != nil {
		s.Rec.Note("system:" + s.Name)
	}
	return s.Fail
}

// Task is a StartupTask with a configurable order.
type Task struct {
	Name string
	Seq  int
	Rec  *Recorder
	Fail error
}

func (t *Task) Order() int {
	return t.Seq
}

func (t *Task) Execute(ctx context.Context) error {
	if t.Rec != nil {
		t.Rec.Note("startup:" + t.Name)
	}
	return t.Fail
}

// Convention fixtures.

type IDisposable interface {
	Dispose()
}

type IWidgetService interface {
	WidgetCount() int
}

// IExtendedWidgetService subsumes IWidgetService, so IWidgetService is not a
// leaf interface for types declaring both.
type IExtendedWidgetService interface {
	WidgetCount() int
	ExtendedWidgets() int
}

// WidgetService implements the auto-initialize contract and declares
// {IWidgetService, IDisposable}; by convention it binds to IWidgetService.
type WidgetService struct {
	Rec  *Recorder
	Fail error

	initialized bool
	disposed    bool
}

func (w *WidgetService) WidgetCount() int {
	return 1
}

func (w *WidgetService) Dispose() {
	w.disposed = true
}

func (w *WidgetService) Initialize(ctx context.Context) error {
	w.initialized = true
	if w.Rec != nil {
		w.Rec.Note("auto:WidgetService")
	}
	return w.Fail
}

func (w *WidgetService) Initialized() bool {
	return w.initialized
}

// ExtendedWidgetService declares {IWidgetService, IExtendedWidgetService};
// only the extended interface is a leaf.
type ExtendedWidgetService struct {
	Rec *Recorder
}

func (e *ExtendedWidgetService) WidgetCount() int {
	return 2
}

func (e *ExtendedWidgetService) ExtendedWidgets() int {
	return 2
}

func (e *ExtendedWidgetService) Initialize(ctx context.Context) error {
	if e.Rec != nil {
		e.Rec.Note("auto:ExtendedWidgetService")
	}
	return nil
}

// Mismatched implements IWidgetService but its name matches no leaf
// interface, so convention resolution must fail for it.
type Mismatched struct{}

func (m *Mismatched) WidgetCount() int {
	return 0
}

func (m *Mismatched) Initialize(ctx context.Context) error {
	return nil
}

// ICacheWarmer pairs with CacheWarmer for the explicit BindAuto path.
type ICacheWarmer interface {
	Warmed() bool
}

type CacheWarmer struct {
	Rec    *Recorder
	Fail   error
	warmed bool
}

func (c *CacheWarmer) Warmed() bool {
	return c.warmed
}

func (c *CacheWarmer) Initialize(ctx context.Context) error {
	if c.Rec != nil {
		c.Rec.Note("auto:CacheWarmer")
	}
	if c.Fail != nil {
		return c.Fail
	}
	c.warmed = true
	return nil
}
