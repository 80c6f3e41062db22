package grammar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// Descriptor carries the selection evidence for one document.
type Descriptor struct {
	// Path is the document's source path or locale token.
	Path string

	// Extension overrides the extension derived from Path.
	Extension string

	// Hint is an explicit jurisdiction or variant id from the caller.
	Hint string

	// ContentSample is an optional slice of the document text used for
	// script detection when the path carries no jurisdiction keyword.
	ContentSample string
}

// Selection is the outcome of variant selection. Reason records the
// evidence that picked the variant so callers can audit fallbacks.
type Selection struct {
	Variant *Variant
	Reason  string
}

// Selection reasons.
const (
	ReasonHint     = "hint"
	ReasonPath     = "path keyword"
	ReasonScript   = "script"
	ReasonFallback = "fallback"
)

// Registry manages grammar variants and selects one per document.
type Registry interface {
	// Register adds or replaces a variant
	Register(v *Variant) error

	// Get returns a variant by id
	Get(id string) (*Variant, bool)

	// List returns all variants in selection order
	List() []*Variant

	// Select picks exactly one variant for a document descriptor;
	// it never fails
	Select(desc Descriptor) Selection

	// Reload restores built-ins and re-applies the override directory
	Reload() error

	// Watch starts watching the override directory for changes
	Watch() error

	// StopWatch stops watching the override directory
	StopWatch()

	// LoadDirectory loads variant override files from a directory
	LoadDirectory(dir string) error

	// LoadFile loads a single variant override file
	LoadFile(path string) error
}

// DefaultRegistry is the default Registry implementation. It starts
// with the built-in variants and can layer YAML overrides on top.
type DefaultRegistry struct {
	mu       sync.RWMutex
	order    []string
	variants map[string]*Variant
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, v *Variant)
}

// NewRegistry creates a registry populated with the built-in variants.
func NewRegistry() *DefaultRegistry {
	r := &DefaultRegistry{
		variants: make(map[string]*Variant),
	}
	for _, v := range BuiltinVariants() {
		// Built-ins are authored in-tree; a compile failure here is a
		// programming error surfaced on first use, not at startup.
		if err := r.Register(v); err != nil {
			panic(fmt.Sprintf("registering built-in variant %q: %v", v.ID, err))
		}
	}
	return r
}

// NewRegistryWithDirectory creates a registry with built-ins plus the
// overrides found in dir.
func NewRegistryWithDirectory(dir string) (*DefaultRegistry, error) {
	r := NewRegistry()
	r.dir = dir

	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}

	return r, nil
}

// Register adds a variant, replacing any existing one with the same id.
// A new id is inserted ahead of the fallback so overrides win on
// selection specificity.
func (r *DefaultRegistry) Register(v *Variant) error {
	if v == nil {
		return fmt.Errorf("variant cannot be nil")
	}

	if err := v.Validate(); err != nil {
		return fmt.Errorf("invalid variant: %w", err)
	}

	if !v.IsCompiled() {
		if err := v.Compile(); err != nil {
			return fmt.Errorf("compiling variant %q: %w", v.ID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.variants[v.ID]; !ok {
		if n := len(r.order); n > 0 && r.order[n-1] == FallbackID {
			r.order = append(r.order[:n-1], v.ID, FallbackID)
		} else {
			r.order = append(r.order, v.ID)
		}
	}
	r.variants[v.ID] = v
	return nil
}

// Get returns a variant by its id.
func (r *DefaultRegistry) Get(id string) (*Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.variants[id]
	return v, ok
}

// List returns all variants in selection order.
func (r *DefaultRegistry) List() []*Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Variant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.variants[id])
	}
	return out
}

// Count returns the number of registered variants.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.variants)
}

// Select picks one variant for a document. Evidence order: explicit
// hint, path keyword (plus a script check on the filename for
// variants that demand it), script detection on the content sample,
// generic fallback. Select never refuses a document.
func (r *DefaultRegistry) Select(desc Descriptor) Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path := strings.ToLower(strings.ReplaceAll(desc.Path, "\\", "/"))
	hint := strings.ToLower(strings.TrimSpace(desc.Hint))

	if hint != "" {
		for _, id := range r.order {
			v := r.variants[id]
			if hint == strings.ToLower(v.ID) || hint == strings.ToLower(v.Jurisdiction) {
				return Selection{Variant: v, Reason: ReasonHint}
			}
		}
	}

	ext := strings.ToLower(desc.Extension)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(path))
	}

	for _, id := range r.order {
		v := r.variants[id]
		if !matchesKeyword(v, path) {
			continue
		}
		if !extensionSatisfied(v, ext) {
			continue
		}
		if v.ScriptInPath && !scriptPresent(v.Script, filepath.Base(desc.Path)) {
			continue
		}
		return Selection{Variant: v, Reason: ReasonPath}
	}

	if desc.ContentSample != "" {
		for _, id := range r.order {
			v := r.variants[id]
			if v.Script == ScriptAny {
				continue
			}
			if scriptPresent(v.Script, desc.ContentSample) {
				return Selection{Variant: v, Reason: ReasonScript}
			}
		}
	}

	if v, ok := r.variants[FallbackID]; ok {
		return Selection{Variant: v, Reason: ReasonFallback}
	}

	// Degenerate registry with the fallback unregistered: first in
	// order still beats refusing the document.
	for _, id := range r.order {
		return Selection{Variant: r.variants[id], Reason: ReasonFallback}
	}
	return Selection{}
}

// extensionSatisfied gates a path-keyword match on the variant's
// expected source extensions. A missing extension passes; a known
// mismatching one blocks.
func extensionSatisfied(v *Variant, ext string) bool {
	if len(v.Extensions) == 0 || ext == "" {
		return true
	}
	for _, e := range v.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func matchesKeyword(v *Variant, path string) bool {
	for _, kw := range v.PathKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

func scriptPresent(s Script, text string) bool {
	switch s {
	case ScriptHangul:
		return ContainsHangul(text)
	case ScriptKana:
		return ContainsKana(text)
	case ScriptHan:
		return ContainsCJK(text)
	}
	return false
}

// LoadDirectory loads all YAML variant files from a directory.
func (r *DefaultRegistry) LoadDirectory(dir string) error {
	r.dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		if err := r.LoadFile(path); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading variants: %s", strings.Join(loadErrors, "; "))
	}

	return nil
}

// LoadFile loads a single variant override file.
func (r *DefaultRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var v Variant
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	if err := r.Register(&v); err != nil {
		return fmt.Errorf("registering variant: %w", err)
	}

	return nil
}

// Reload restores the built-in variants and re-applies the override
// directory.
func (r *DefaultRegistry) Reload() error {
	r.mu.Lock()
	r.order = nil
	r.variants = make(map[string]*Variant)
	r.mu.Unlock()

	for _, v := range BuiltinVariants() {
		if err := r.Register(v); err != nil {
			return err
		}
	}

	if r.dir == "" {
		return nil
	}
	return r.LoadDirectory(r.dir)
}

// SetOnChange sets a callback invoked when a variant file changes.
func (r *DefaultRegistry) SetOnChange(fn func(event string, v *Variant)) {
	r.onChange = fn
}

// Watch starts watching the override directory for changes.
func (r *DefaultRegistry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop()

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}

	return nil
}

func (r *DefaultRegistry) watchLoop() {
	for {
		select {
		case <-r.stopChan:
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}

			if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				r.handleFileChange(event.Name, "create")

			case event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name, "modify")

			case event.Op&fsnotify.Remove == fsnotify.Remove:
				r.handleFileRemove()

			case event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove()
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			_ = err
		}
	}
}

func (r *DefaultRegistry) handleFileChange(path string, eventType string) {
	if err := r.LoadFile(path); err != nil {
		return
	}

	if r.onChange != nil {
		base := filepath.Base(path)
		id := strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
		if v, ok := r.Get(id); ok {
			r.onChange(eventType, v)
		}
	}
}

// handleFileRemove rebuilds the registry: override files carry no
// id-to-file mapping, so a removal means a full reload.
func (r *DefaultRegistry) handleFileRemove() {
	if err := r.Reload(); err != nil {
		return
	}

	if r.onChange != nil {
		r.onChange("remove", nil)
	}
}

// StopWatch stops watching the override directory.
func (r *DefaultRegistry) StopWatch() {
	if r.stopChan != nil {
		close(r.stopChan)
	}
	if r.watcher != nil {
		r.watcher.Close()
	}
}
