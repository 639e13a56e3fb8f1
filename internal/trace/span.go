package trace

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	globalSeq   uint64
	globalSpans uint64
	openSpans   int64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 {
	return atomic.AddUint64(&globalSpans, 1)
}

// OpenSpans reports how many emitted spans have not ended yet.
func OpenSpans() int64 {
	return atomic.LoadInt64(&openSpans)
}

// getGoroutineID parses the goroutine number from runtime.Stack
// ("goroutine 123 [running]:").
func getGoroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}
	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is one traced unit of repair work. It remembers the session and the
// iteration it belongs to and stamps them on every event it emits, including
// events of its children.
//
// A span filtered out by the tracer level still keeps the tracer, so errors
// raised under it are recorded.
type Span struct {
	tracer    Tracer
	live      bool
	id        uint64
	parentID  uint64
	gid       uint64
	scope     Scope
	name      string
	session   string
	iteration int
	started   time.Time
	extra     map[string]string
}

// Begin starts a span with no session attribution, e.g. a driver span over
// several projects. parent is the parent span ID (0 if root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, parent, "", 0)
}

// BeginSession starts the root span of one repair session.
func BeginSession(t Tracer, name, session string, parent uint64) *Span {
	return begin(t, ScopeSession, name, parent, session, 0)
}

func begin(t Tracer, scope Scope, name string, parent uint64, session string, iteration int) *Span {
	if t == nil {
		t = Nop
	}
	s := &Span{tracer: t, parentID: parent, scope: scope, name: name, session: session, iteration: iteration}
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return s
	}
	s.live = true
	s.id = NextSpanID()
	s.gid = getGoroutineID()
	s.started = time.Now()
	atomic.AddInt64(&openSpans, 1)
	t.Emit(s.event(KindSpanBegin, s.started, name, ""))
	return s
}

// BeginIteration starts the span of iteration n under a session span.
func (s *Span) BeginIteration(n int) *Span {
	if s == nil {
		return begin(Nop, ScopeIteration, "", 0, "", n)
	}
	return begin(s.tracer, ScopeIteration, fmt.Sprintf("iteration %d", n), s.parent(), s.session, n)
}

// Child starts a span one level down that inherits the session and iteration.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return begin(Nop, scope, name, 0, "", 0)
	}
	return begin(s.tracer, scope, name, s.parent(), s.session, s.iteration)
}

// parent is the id children hang off: this span, or its own parent when this
// one was filtered out.
func (s *Span) parent() uint64 {
	if s.live {
		return s.id
	}
	return s.parentID
}

func (s *Span) event(kind Kind, at time.Time, name, detail string) *Event {
	ev := &Event{
		Time:      at,
		Seq:       NextSeq(),
		Kind:      kind,
		Scope:     s.scope,
		SpanID:    s.id,
		ParentID:  s.parentID,
		GID:       s.gid,
		Name:      name,
		Detail:    detail,
		Session:   s.session,
		Iteration: s.iteration,
	}
	if kind != KindSpanBegin && kind != KindSpanEnd {
		ev.SpanID = 0
		ev.ParentID = s.parent()
		ev.GID = getGoroutineID()
	}
	return ev
}

// End emits the SpanEnd event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || !s.live {
		return 0
	}
	s.live = false
	atomic.AddInt64(&openSpans, -1)
	now := time.Now()
	ev := s.event(KindSpanEnd, now, s.name, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return now.Sub(s.started)
}

// WithExtra adds a key/value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || !s.live {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// Point emits an instant event under the span at the span's scope.
func (s *Span) Point(name, detail string, pairs ...string) {
	if s == nil || !s.tracer.Enabled() || !s.tracer.Level().ShouldEmit(s.scope) {
		return
	}
	ev := s.event(KindPoint, time.Now(), name, detail)
	ev.Extra = kv(pairs)
	s.tracer.Emit(ev)
}

// Error emits an error event under the span. Errors pass every level but off.
func (s *Span) Error(name, detail string, pairs ...string) {
	if s == nil || !s.tracer.Enabled() {
		return
	}
	ev := s.event(KindError, time.Now(), name, detail)
	ev.Extra = kv(pairs)
	s.tracer.Emit(ev)
}

// ID returns the span ID, 0 when the span was filtered out.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Session returns the session the span belongs to.
func (s *Span) Session() string {
	if s == nil {
		return ""
	}
	return s.session
}

// Iteration returns the iteration the span belongs to, 0 outside one.
func (s *Span) Iteration() int {
	if s == nil {
		return 0
	}
	return s.iteration
}
