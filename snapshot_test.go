package main

import (
    "sync"
    "testing"
    "time"
)

func TestCurrentNilBeforeFirstPublish(t *testing.T) {
    store := &SnapshotStore{}
    if store.Current() != nil {
        t.Fatalf("expected nil before the first publish")
    }
}

func TestPublishReplacesWholeSnapshot(t *testing.T) {
    store := &SnapshotStore{}
    first := &Snapshot{Taken: time.Now(), Readings: []PinReading{{Label: "D1", State: StateLow}}}
    store.Publish(first)
    second := &Snapshot{Taken: time.Now(), Readings: []PinReading{{Label: "D1", State: StateHigh}}}
    store.Publish(second)

    if got := store.Current(); got != second {
        t.Fatalf("Current() = %p, want the last published snapshot %p", got, second)
    }
}

func TestPublishClampsBackwardsTimestamps(t *testing.T) {
    store := &SnapshotStore{}
    later := time.Now()
    earlier := later.Add(-time.Minute)

    store.Publish(&Snapshot{Taken: later})
    store.Publish(&Snapshot{Taken: earlier})

    if got := store.Current().Taken; got.Before(later) {
        t.Fatalf("timestamp went backwards: %v < %v", got, later)
    }
}

func TestTimestampsNonDecreasingAcrossPublishes(t *testing.T) {
    store := &SnapshotStore{}
    var prev time.Time
    for i := 0; i < 100; i++ {
        store.Publish(&Snapshot{Taken: time.Now()})
        got := store.Current().Taken
        if got.Before(prev) {
            t.Fatalf("publish %d: timestamp %v before %v", i, got, prev)
        }
        prev = got
    }
}

// Readers racing a publisher must only ever observe snapshots from a single
// sampling pass.  Every reading in a published snapshot carries the same
// generation number, so a mixed observation would show two values.
func TestReadersNeverSeeMixedSnapshots(t *testing.T) {
    store := &SnapshotStore{}
    stop := make(chan struct{})
    var wg sync.WaitGroup

    for i := 0; i < 4; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for {
                select {
                case <-stop:
                    return
                default:
                }
                snap := store.Current()
                if snap == nil {
                    continue
                }
                gen := snap.Readings[0].GPIO
                for _, r := range snap.Readings {
                    if r.GPIO != gen {
                        t.Errorf("mixed snapshot: generation %d and %d together", gen, r.GPIO)
                        return
                    }
                }
            }
        }()
    }

    for gen := 0; gen < 1000; gen++ {
        readings := make([]PinReading, 8)
        for i := range readings {
            readings[i] = PinReading{GPIO: gen, State: StateLow}
        }
        store.Publish(&Snapshot{Taken: time.Now(), Readings: readings})
    }
    close(stop)
    wg.Wait()
}
