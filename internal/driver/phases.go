package driver

import (
	"context"
	"time"

	"bfi/internal/observ"
	"bfi/internal/pipeline"
	"bfi/internal/trace"
)

// phases ties the --timings timer, per-stage Timings, trace spans and
// progress events of one file together. Timer is not goroutine-safe and is
// left nil for files processed in parallel.
type phases struct {
	ctx     context.Context
	timer   *observ.Timer
	timings pipeline.Timings
	sink    pipeline.ProgressSink
	file    string
}

type endFunc func(note string, err error)

func (p *phases) begin(stage pipeline.Stage) endFunc {
	sp, _ := trace.StartSpan(p.ctx, trace.ScopePass, string(stage))
	idx := p.timer.Begin(string(stage))
	pipeline.Emit(p.sink, p.file, stage, pipeline.StatusWorking, nil, 0)
	start := time.Now()

	return func(note string, err error) {
		elapsed := time.Since(start)
		p.timer.End(idx, note)
		if err != nil {
			sp.WithExtra("error", err.Error())
		}
		sp.End(note)
		p.timings.Add(stage, elapsed)
		status := pipeline.StatusDone
		if err != nil {
			status = pipeline.StatusError
		}
		pipeline.Emit(p.sink, p.file, stage, status, err, elapsed)
	}
}
