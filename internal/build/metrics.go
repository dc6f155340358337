package build

import (
	"sync"
	"time"
)

// BuildMetrics tracks build outcomes across a watch session.
type BuildMetrics struct {
	TotalBuilds      int64
	SuccessfulBuilds int64
	FailedBuilds     int64
	AverageDuration  time.Duration
	TotalDuration    time.Duration
	LastError        string
	mutex            sync.RWMutex
}

// NewBuildMetrics creates a new build metrics tracker
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{}
}

// RecordBuild records one build.
func (bm *BuildMetrics) RecordBuild(duration time.Duration, err error) {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	bm.TotalBuilds++
	bm.TotalDuration += duration

	if err != nil {
		bm.FailedBuilds++
		bm.LastError = err.Error()
	} else {
		bm.SuccessfulBuilds++
		bm.LastError = ""
	}

	bm.AverageDuration = bm.TotalDuration / time.Duration(bm.TotalBuilds)
}

// GetSnapshot returns a copy of the current metrics.
func (bm *BuildMetrics) GetSnapshot() BuildMetrics {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()
	return BuildMetrics{
		TotalBuilds:      bm.TotalBuilds,
		SuccessfulBuilds: bm.SuccessfulBuilds,
		FailedBuilds:     bm.FailedBuilds,
		AverageDuration:  bm.AverageDuration,
		TotalDuration:    bm.TotalDuration,
		LastError:        bm.LastError,
	}
}

// GetSuccessRate returns the success rate as a percentage
func (bm *BuildMetrics) GetSuccessRate() float64 {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()

	if bm.TotalBuilds == 0 {
		return 0.0
	}
	return float64(bm.SuccessfulBuilds) / float64(bm.TotalBuilds) * 100.0
}

// LogFields returns the metrics as structured logging fields.
func (bm *BuildMetrics) LogFields() []interface{} {
	snap := bm.GetSnapshot()
	fields := []interface{}{
		"builds", snap.TotalBuilds,
		"failed", snap.FailedBuilds,
		"success_rate", bm.GetSuccessRate(),
		"avg_ms", snap.AverageDuration.Milliseconds(),
	}
	if snap.LastError != "" {
		fields = append(fields, "last_error", snap.LastError)
	}
	return fields
}
