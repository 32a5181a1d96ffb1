package plugin

import (
	"fmt"
	"sync"
)

// Contribution is a single item contributed to an extension point.
// Its concrete type is an application-level convention of the point.
type Contribution interface{}

// ExtendFunc produces the contributions of one extender. An error aborts
// the evaluation of the target extension point.
type ExtendFunc func() ([]Contribution, error)

// Extender contributes an ordered sequence of items to exactly one
// extension point. Name identifies the extender (conventionally
// "<plugin id>.<what>") and makes registration idempotent.
type Extender struct {
	// Name is the identity tag of the extender.
	Name string

	// Target is the id of the extension point this extender feeds.
	Target string

	// Func produces the contributions.
	Func ExtendFunc
}

// valid reports whether the extender carries a target and a callback.
func (e Extender) valid() bool {
	return e.Name != "" && e.Target != "" && e.Func != nil
}

// ExtensionPoint is a named slot other plugins contribute to. It holds
// its extenders in registration order and caches the concatenation of
// their contributions after the first read.
type ExtensionPoint struct {
	id string

	mu        sync.Mutex
	extenders []Extender
	cache     []Contribution
	evaluated bool
}

// NewExtensionPoint creates an extension point with the given unique id.
func NewExtensionPoint(id string) *ExtensionPoint {
	return &ExtensionPoint{id: id}
}

// ID returns the extension point id.
func (p *ExtensionPoint) ID() string {
	return p.id
}

// Contributions returns the contributions of every registered extender,
// concatenated in registration order. The result is computed on first
// access and cached; subsequent reads return the cached slice until
// Invalidate is called. An extender failure aborts the read and leaves
// no partial cache behind.
func (p *ExtensionPoint) Contributions() ([]Contribution, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.evaluated {
		return p.cache, nil
	}

	var all []Contribution
	for _, ext := range p.extenders {
		items, err := ext.Func()
		if err != nil {
			return nil, fmt.Errorf("%w: extender %q on %q: %v", ErrExtenderContract, ext.Name, p.id, err)
		}
		all = append(all, items...)
	}

	p.cache = all
	p.evaluated = true
	return p.cache, nil
}

// Invalidate drops the cached contributions so the next read re-invokes
// every extender.
func (p *ExtensionPoint) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = nil
	p.evaluated = false
}

// Extenders returns a copy of the registered extenders in registration order.
func (p *ExtensionPoint) Extenders() []Extender {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Extender, len(p.extenders))
	copy(out, p.extenders)
	return out
}

// addExtender appends the extender unless one with the same name is
// already registered. Registering an extender invalidates the cache.
func (p *ExtensionPoint) addExtender(ext Extender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.extenders {
		if e.Name == ext.Name {
			return
		}
	}
	p.extenders = append(p.extenders, ext)
	p.cache = nil
	p.evaluated = false
}

// removeExtender drops the extender with the given name; absence is a no-op.
func (p *ExtensionPoint) removeExtender(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, e := range p.extenders {
		if e.Name == name {
			p.extenders = append(p.extenders[:i], p.extenders[i+1:]...)
			p.cache = nil
			p.evaluated = false
			return
		}
	}
}

func (p *ExtensionPoint) String() string {
	return p.id
}
