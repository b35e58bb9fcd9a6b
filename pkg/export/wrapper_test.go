package export

import "testing"

func TestMemoryWrapper(t *testing.T) {
	w := NewMemoryWrapper()

	if w.Completed() {
		t.Error("Completed() = true before AllItemsProcessed")
	}

	if err := w.WrapItem(map[string]any{"id": "1"}); err != nil {
		t.Fatalf("WrapItem() failed: %v", err)
	}
	if err := w.WrapItem(map[string]any{"id": "2"}); err != nil {
		t.Fatalf("WrapItem() failed: %v", err)
	}
	if err := w.AllItemsProcessed(); err != nil {
		t.Fatalf("AllItemsProcessed() failed: %v", err)
	}

	if !w.Completed() {
		t.Error("Completed() = false after AllItemsProcessed")
	}
	items := w.Items()
	if len(items) != 2 {
		t.Fatalf("Items() holds %d records, want 2", len(items))
	}
	if items[0]["id"] != "1" || items[1]["id"] != "2" {
		t.Errorf("Items() = %v, records out of order", items)
	}

	results, ok := w.GetResults().([]map[string]any)
	if !ok {
		t.Fatalf("GetResults() has type %T", w.GetResults())
	}
	if len(results) != 2 {
		t.Errorf("GetResults() holds %d records, want 2", len(results))
	}
}
