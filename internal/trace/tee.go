package trace

// tee backs ModeBoth: the stream prints what the level asks for while the
// ring keeps its own, wider, record for the failure dump.
type tee struct {
	stream *StreamTracer
	ring   *RingTracer
	level  Level
}

func (t *tee) Emit(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = nextSeq()
	}
	cp := *ev
	t.stream.Emit(&cp)
	t.ring.Emit(ev)
}

func (t *tee) Flush() error  { return t.stream.Flush() }
func (t *tee) Close() error  { return t.stream.Close() }
func (t *tee) Level() Level  { return t.level }
func (t *tee) Enabled() bool { return t.level > LevelOff }
