package bindings

import "strings"

// Resolver matches incoming key chords against a set of bound sequences.
// Single keys resolve immediately; multi-key sequences such as "g e"
// accumulate in a rolling buffer that the owner clears on its tick.
type Resolver struct {
	single map[string]string
	multi  map[string]string
	buffer []string
}

func NewResolver() *Resolver {
	return &Resolver{
		single: make(map[string]string),
		multi:  make(map[string]string),
	}
}

// Bind associates a chord with a named action. Chords with spaces are
// multi-key sequences; everything else matches a single key event.
func (r *Resolver) Bind(chord, action string) {
	chord = strings.TrimSpace(chord)
	if chord == "" || action == "" {
		return
	}
	if strings.Contains(chord, " ") {
		r.multi[chord] = action
		return
	}
	r.single[chord] = action
}

// Resolve takes the canonical form of the latest key event and returns the
// bound action name, if any. Unmatched keys still extend the buffer so a
// later key can complete a pending sequence.
func (r *Resolver) Resolve(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	if action, ok := r.single[key]; ok {
		return action, true
	}
	r.buffer = append(r.buffer, key)
	if action, ok := r.multi[strings.Join(r.buffer, " ")]; ok {
		return action, true
	}
	return "", false
}

// Reset clears the pending sequence buffer. Called on every tick so stale
// prefixes do not leak into later input.
func (r *Resolver) Reset() {
	r.buffer = r.buffer[:0]
}

// Pending reports whether a partial sequence is buffered.
func (r *Resolver) Pending() bool {
	return len(r.buffer) > 0
}
