package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Registry keeps the live form instances, one per rendered contact page.
// Forms expire after ttl or when capacity is exceeded; eviction detaches
// them so late relay results are discarded.
type Registry struct {
	relay  Relay
	logger *zap.Logger
	forms  *expirable.LRU[string, *Form]
}

// NewRegistry creates a registry holding up to size forms for ttl each.
func NewRegistry(relay Relay, size int, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	onEvict := func(_ string, f *Form) { f.Detach() }
	return &Registry{
		relay:  relay,
		logger: logger,
		forms:  expirable.NewLRU[string, *Form](size, onEvict, ttl),
	}
}

// Create mounts a fresh form.
func (r *Registry) Create() *Form {
	f := NewForm(uuid.NewString(), r.relay, r.logger)
	r.forms.Add(f.ID(), f)
	return f
}

// Get returns a live form.
func (r *Registry) Get(id string) (*Form, bool) {
	if id == "" {
		return nil, false
	}
	return r.forms.Get(id)
}

// GetOrCreate returns the form with id, or mounts a fresh one when it has
// expired.
func (r *Registry) GetOrCreate(id string) *Form {
	if f, ok := r.Get(id); ok {
		return f
	}
	return r.Create()
}

// Remove unmounts a form.
func (r *Registry) Remove(id string) {
	r.forms.Remove(id)
}

// Len returns the number of live forms.
func (r *Registry) Len() int { return r.forms.Len() }
