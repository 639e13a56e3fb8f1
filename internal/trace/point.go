package trace

import "time"

// kv folds alternating key/value strings into a map. A trailing key without a
// value is dropped.
func kv(pairs []string) map[string]string {
	if len(pairs) < 2 {
		return nil
	}
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m
}

// Point emits an instant event. pairs are alternating keys and values.
func Point(t Tracer, scope Scope, name, detail string, parent uint64, pairs ...string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      getGoroutineID(),
		Name:     name,
		Detail:   detail,
		Extra:    kv(pairs),
	})
}

// Error emits an error event. It is recorded at every level above off.
func Error(t Tracer, scope Scope, name, detail string, parent uint64, pairs ...string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindError,
		Scope:    scope,
		ParentID: parent,
		GID:      getGoroutineID(),
		Name:     name,
		Detail:   detail,
		Extra:    kv(pairs),
	})
}
