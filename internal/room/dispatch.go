package room

import "encoding/json"

// Handler processes one inbound message of a registered kind on the room's
// event loop.
type Handler func(c Client, data json.RawMessage)

// Dispatcher maps message kinds to handlers for a single room instance.
// Registration is layered: the template installs the base set first, then a
// concrete room type may add kinds or re-register an existing one to
// override it.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher returns an empty registry.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// Register binds a handler to a kind, replacing any previous binding.
func (d *Dispatcher) Register(kind string, h Handler) {
	if h == nil {
		delete(d.handlers, kind)
		return
	}
	d.handlers[kind] = h
}

// Lookup returns the handler bound to the kind, if any.
func (d *Dispatcher) Lookup(kind string) (Handler, bool) {
	h, ok := d.handlers[kind]
	return h, ok
}

// Kinds lists the registered kinds, primarily for diagnostics.
func (d *Dispatcher) Kinds() []string {
	kinds := make([]string, 0, len(d.handlers))
	for kind := range d.handlers {
		kinds = append(kinds, kind)
	}
	return kinds
}
