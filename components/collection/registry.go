package collection

import (
	"fmt"
	"sort"
	"sync"
)

// ResourceDescriptor declares how a domain collection behaves: which
// attribute fields free-text search covers, which draft fields are required,
// which are rich text or file uploads, and which action verbs the backend
// accepts for it.
type ResourceDescriptor struct {
	Code           string         `json:"code" yaml:"code"`
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	SearchFields   []string       `json:"search_fields,omitempty" yaml:"search_fields,omitempty"`
	RequiredFields []string       `json:"required_fields,omitempty" yaml:"required_fields,omitempty"`
	RichTextFields []string       `json:"rich_text_fields,omitempty" yaml:"rich_text_fields,omitempty"`
	FileFields     []string       `json:"file_fields,omitempty" yaml:"file_fields,omitempty"`
	Actions        []string       `json:"actions,omitempty" yaml:"actions,omitempty"`
	Schema         map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ResourceHook lets packages register descriptors during init().
type ResourceHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ResourceHook
)

// RegisterResourceHook registers a hook executed against new registries.
func RegisterResourceHook(h ResourceHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores resource descriptors discoverable via hooks or manifests.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]ResourceDescriptor
}

// NewRegistry builds a registry seeded with the default SaaS resources and
// applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{descriptors: map[string]ResourceDescriptor{}}
	for _, desc := range DefaultResourceDescriptors() {
		_ = reg.RegisterDescriptor(desc)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered resource hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDescriptor stores resource metadata.
func (r *Registry) RegisterDescriptor(desc ResourceDescriptor) error {
	if desc.Code == "" {
		return fmt.Errorf("collection: resource descriptor code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[desc.Code] = desc
	return nil
}

// Descriptor returns the descriptor registered for the code.
func (r *Registry) Descriptor(code string) (ResourceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[code]
	return desc, ok
}

// Descriptors returns every registered descriptor sorted by code.
func (r *Registry) Descriptors() []ResourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ResourceDescriptor, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
