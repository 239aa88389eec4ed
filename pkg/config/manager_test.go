package config

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// fakeSection is a minimal Section backed by a map
type fakeSection struct {
	id          string
	data        map[string]interface{}
	validateErr error
}

func (f *fakeSection) ID() string                                { return f.id }
func (f *fakeSection) Title() string                             { return f.id }
func (f *fakeSection) Description() string                       { return "" }
func (f *fakeSection) Data() map[string]interface{}              { return f.data }
func (f *fakeSection) SetData(data map[string]interface{}) error { f.data = data; return nil }
func (f *fakeSection) Validate() error                           { return f.validateErr }
func (f *fakeSection) Reset()                                    { f.data = map[string]interface{}{} }

// memoryStore is an in-memory Store with injectable failures
type memoryStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sections: make(map[string]map[string]interface{})}
}

func (m *memoryStore) Load() error { return m.loadErr }

func (m *memoryStore) Save() error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	return nil
}

func (m *memoryStore) GetSection(id string) (map[string]interface{}, error) {
	return m.sections[id], nil
}

func (m *memoryStore) SetSection(id string, data map[string]interface{}) error {
	m.sections[id] = data
	return nil
}

func (m *memoryStore) GetAll() (map[string]map[string]interface{}, error) { return m.sections, nil }

func (m *memoryStore) SetAll(data map[string]map[string]interface{}) error {
	m.sections = data
	return nil
}

func TestManager_RegisterSection(t *testing.T) {
	t.Run("keeps registration order", func(t *testing.T) {
		manager := NewManager(newMemoryStore())
		for _, id := range []string{"page", "storage", "ui"} {
			if err := manager.RegisterSection(&fakeSection{id: id}); err != nil {
				t.Fatalf("RegisterSection(%s) failed: %v", id, err)
			}
		}

		sections := manager.GetSections()
		if len(sections) != 3 {
			t.Fatalf("Expected 3 sections, got %d", len(sections))
		}
		if sections[0].ID() != "page" || sections[2].ID() != "ui" {
			t.Error("Sections not in registration order")
		}
	})

	t.Run("rejects duplicate IDs", func(t *testing.T) {
		manager := NewManager(newMemoryStore())
		manager.RegisterSection(&fakeSection{id: "page"})

		if err := manager.RegisterSection(&fakeSection{id: "page"}); err == nil {
			t.Error("Expected error for duplicate registration")
		}
	})

	t.Run("unknown section is not found", func(t *testing.T) {
		manager := NewManager(newMemoryStore())
		if _, ok := manager.GetSection("missing"); ok {
			t.Error("Expected GetSection to report missing section")
		}
	})
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("applies stored data", func(t *testing.T) {
		store := newMemoryStore()
		store.sections["page"] = map[string]interface{}{"url": "https://example.com"}
		section := &fakeSection{id: "page"}

		manager := NewManager(store)
		manager.RegisterSection(section)
		if err := manager.LoadAll(); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if section.data["url"] != "https://example.com" {
			t.Errorf("Section data not loaded, got %v", section.data)
		}
	})

	t.Run("keeps defaults for absent sections", func(t *testing.T) {
		section := &fakeSection{id: "ui", data: map[string]interface{}{"timeline_height": 960}}
		manager := NewManager(newMemoryStore())
		manager.RegisterSection(section)

		if err := manager.LoadAll(); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if section.data["timeline_height"] != 960 {
			t.Error("Absent section should keep its defaults")
		}
	})

	t.Run("propagates store errors", func(t *testing.T) {
		store := newMemoryStore()
		store.loadErr = fmt.Errorf("disk error")
		if err := NewManager(store).LoadAll(); err == nil {
			t.Error("Expected error from store")
		}
	})

	t.Run("validates loaded sections", func(t *testing.T) {
		manager := NewManager(newMemoryStore())
		manager.RegisterSection(&fakeSection{id: "good"})
		manager.RegisterSection(&fakeSection{id: "watch", validateErr: fmt.Errorf("bad schedule")})

		err := manager.LoadAll()
		if err == nil || !strings.Contains(err.Error(), "invalid watch configuration") {
			t.Errorf("Expected watch validation error, got %v", err)
		}
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("writes every section", func(t *testing.T) {
		store := newMemoryStore()
		manager := NewManager(store)
		manager.RegisterSection(&fakeSection{id: "watch", data: map[string]interface{}{"schedule": "@hourly"}})

		if err := manager.SaveAll(); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		if store.sections["watch"]["schedule"] != "@hourly" {
			t.Error("Section data not saved")
		}
		if store.saves != 1 {
			t.Errorf("Expected 1 save, got %d", store.saves)
		}
	})

	t.Run("validation failure writes nothing", func(t *testing.T) {
		store := newMemoryStore()
		manager := NewManager(store)
		manager.RegisterSection(&fakeSection{id: "good", data: map[string]interface{}{"k": "v"}})
		manager.RegisterSection(&fakeSection{id: "bad", validateErr: fmt.Errorf("bad value")})

		if err := manager.SaveAll(); err == nil {
			t.Fatal("Expected validation error")
		}
		if len(store.sections) != 0 || store.saves != 0 {
			t.Error("Nothing should be written when validation fails")
		}
	})

	t.Run("propagates save errors", func(t *testing.T) {
		store := newMemoryStore()
		store.saveErr = fmt.Errorf("read-only filesystem")
		manager := NewManager(store)
		manager.RegisterSection(&fakeSection{id: "ui"})

		if err := manager.SaveAll(); err == nil {
			t.Error("Expected error from store")
		}
	})
}

func TestManager_ResetAll(t *testing.T) {
	section := &fakeSection{id: "ui", data: map[string]interface{}{"timeline_height": 480}}
	manager := NewManager(newMemoryStore())
	manager.RegisterSection(section)

	manager.ResetAll()
	if len(section.data) != 0 {
		t.Errorf("Expected reset data, got %v", section.data)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager(newMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			manager.RegisterSection(&fakeSection{id: fmt.Sprintf("section-%d", n)})
			manager.GetSections()
		}(i)
	}
	wg.Wait()

	if got := len(manager.GetSections()); got != 10 {
		t.Errorf("Expected 10 sections, got %d", got)
	}
}
