package export

// Wrapper receives finished export records. Implementations turn them
// into the target output format; the exporter only guarantees that
// AllItemsProcessed is called once after the last WrapItem, including
// on a gracefully aborted (throttled) run.
type Wrapper interface {
	WrapItem(item map[string]any) error
	AllItemsProcessed() error
	GetResults() any
}

// MemoryWrapper collects wrapped records in memory.
type MemoryWrapper struct {
	items     []map[string]any
	completed bool
}

// NewMemoryWrapper creates an empty in-memory wrapper.
func NewMemoryWrapper() *MemoryWrapper {
	return &MemoryWrapper{}
}

// WrapItem appends one record.
func (w *MemoryWrapper) WrapItem(item map[string]any) error {
	w.items = append(w.items, item)
	return nil
}

// AllItemsProcessed marks the run complete.
func (w *MemoryWrapper) AllItemsProcessed() error {
	w.completed = true
	return nil
}

// GetResults returns the collected records.
func (w *MemoryWrapper) GetResults() any {
	return w.items
}

// Items returns the collected records with their concrete type.
func (w *MemoryWrapper) Items() []map[string]any {
	return w.items
}

// Completed reports whether AllItemsProcessed was called.
func (w *MemoryWrapper) Completed() bool {
	return w.completed
}
