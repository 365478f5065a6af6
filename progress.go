package wikidump

import "time"

// Progress is a snapshot of the coordinator's counters.
// Snapshots are copies; receivers may keep them without synchronization.
type Progress struct {
	Seen       int64     // structurally valid pages read
	Kept       int64     // articles dispatched for normalization
	BytesRead  int64     // input bytes consumed
	BytesTotal int64     // input size, 0 if unknown
	Started    time.Time // wall clock start of the run
	Title      string    // title of the most recently read article
}

// ProgressFunc receives progress snapshots as a run proceeds.
type ProgressFunc func(Progress)

// Elapsed returns the wall time since the run started.
func (p Progress) Elapsed(now time.Time) time.Duration {
	if p.Started.IsZero() || now.Before(p.Started) {
		return 0
	}
	return now.Sub(p.Started)
}

// Percent returns the fraction of input consumed in the range [0, 100].
// The bool result is false if the input size is unknown.
func (p Progress) Percent() (float64, bool) {
	if p.BytesTotal <= 0 {
		return 0, false
	}
	pct := float64(p.BytesRead) / float64(p.BytesTotal) * 100
	return min(pct, 100), true
}

// KeepRatio returns the fraction of seen articles that were kept.
// The bool result is false before any article has been seen.
func (p Progress) KeepRatio() (float64, bool) {
	if p.Seen <= 0 {
		return 0, false
	}
	return float64(p.Kept) / float64(p.Seen), true
}

// Throughput returns kept articles per second.
// The bool result is false if no time has elapsed.
func (p Progress) Throughput(now time.Time) (float64, bool) {
	secs := p.Elapsed(now).Seconds()
	if secs <= 0 {
		return 0, false
	}
	return float64(p.Kept) / secs, true
}

// ByteRate returns input bytes consumed per second.
// The bool result is false if no time has elapsed.
func (p Progress) ByteRate(now time.Time) (float64, bool) {
	secs := p.Elapsed(now).Seconds()
	if secs <= 0 {
		return 0, false
	}
	return float64(p.BytesRead) / secs, true
}

// ETA estimates the time remaining from the byte rate so far.
// The bool result is false if the input size or rate is unknown.
func (p Progress) ETA(now time.Time) (time.Duration, bool) {
	if p.BytesTotal <= 0 {
		return 0, false
	}
	rate, ok := p.ByteRate(now)
	if !ok || rate <= 0 {
		return 0, false
	}
	remaining := p.BytesTotal - p.BytesRead
	if remaining <= 0 {
		return 0, true
	}
	return time.Duration(float64(remaining) / rate * float64(time.Second)), true
}
