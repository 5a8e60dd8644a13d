package main

import (
    "context"
    "time"
)

// Loop is the cooperative scheduler.  One goroutine owns sampling, snapshot
// publication and all connection progress; one iteration is one tick.  The
// socket poll slices inside Server bound each tick, so a stalled client can
// delay the next tick by at most a few milliseconds, never by a blocking
// wait.
type Loop struct {
    pins     []PinDescriptor
    interval time.Duration
    sampler  *Sampler
    store    *SnapshotStore
    srv      *Server
    renderer *Renderer
}

func NewLoop(cfg Config, sampler *Sampler, store *SnapshotStore, srv *Server, renderer *Renderer) *Loop {
    return &Loop{
        pins:     cfg.Pins,
        interval: time.Duration(cfg.SampleIntervalMs) * time.Millisecond,
        sampler:  sampler,
        store:    store,
        srv:      srv,
        renderer: renderer,
    }
}

// Run ticks until the context is cancelled.  The cadence check comes first in
// every tick, so sampling keeps its schedule no matter how much connection
// work is pending.
func (l *Loop) Run(ctx context.Context) error {
    l.publish() // first snapshot before any request can be served
    last := time.Now()
    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        default:
        }
        now := time.Now()
        if now.Sub(last) >= l.interval {
            l.publish()
            last = now
        }
        l.srv.AcceptOne(now)
        l.srv.AdvanceAll(now)
    }
}

// publish runs one sampling pass, swaps in the snapshot and pushes it to any
// open event streams.
func (l *Loop) publish() {
    snap := l.sampler.Sample(l.pins)
    l.store.Publish(snap)
    l.srv.Broadcast(l.renderer.Event(snap))
}
