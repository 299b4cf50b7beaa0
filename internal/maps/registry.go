package maps

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Info describes a registered layout.
type Info struct {
	ID      string
	Name    string
	Bricks  int
	BuiltIn bool
}

var (
	layouts = make(map[string]Layout)
	mu      sync.RWMutex
)

func init() {
	entries, err := fs.ReadDir(builtinFS, "data")
	if err != nil {
		panic(fmt.Sprintf("maps: reading built-in layouts: %v", err))
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile("data/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("maps: reading %s: %v", e.Name(), err))
		}
		l, err := ParseYAML(data)
		if err != nil {
			panic(fmt.Sprintf("maps: parsing %s: %v", e.Name(), err))
		}
		Register(l)
	}
}

// Register adds a layout to the catalogue.
// Panics if a layout with the same ID is already registered.
func Register(l Layout) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := layouts[l.ID]; exists {
		panic(fmt.Sprintf("maps: layout %q already registered", l.ID))
	}
	layouts[l.ID] = l
}

// RegisterAll adds layouts loaded from disk, replacing any user layout with
// the same ID. Built-in layouts cannot be replaced.
func RegisterAll(ls []Layout) error {
	mu.Lock()
	defer mu.Unlock()

	for _, l := range ls {
		if existing, ok := layouts[l.ID]; ok && existing.FilePath == "" {
			return fmt.Errorf("maps: %s shadows built-in layout %q", l.FilePath, l.ID)
		}
		layouts[l.ID] = l
	}
	return nil
}

// List returns all registered layouts sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(layouts))
	for _, l := range layouts {
		result = append(result, Info{
			ID:      l.ID,
			Name:    l.Name,
			Bricks:  l.Count(),
			BuiltIn: l.FilePath == "",
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Get returns the layout registered under id.
func Get(id string) (Layout, error) {
	mu.RLock()
	defer mu.RUnlock()

	l, ok := layouts[id]
	if !ok {
		return Layout{}, fmt.Errorf("%w %q", ErrUnknownMap, id)
	}
	return l, nil
}
