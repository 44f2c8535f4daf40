package imagefilter

import (
	"math"
	"time"
)

// The Scheduler interface is implemented by all band scheduling
// algorithms. Schedule splits an image of the given height into
// horizontal bands, one per worker, and returns the band height
// assigned to each worker.
//
// lastBandTime carries the measured duration of each band from the
// previous run; it is nil when no feedback is available yet.
type Scheduler interface {
	Schedule(workers, height int, lastBandTime []time.Duration) []int
}

// The uniform scheduler assumes all workers process rows at the same
// speed and always assigns near-equal shares.
type uniformScheduler struct{}

// Create a scheduler that splits rows evenly across workers.
func NewUniformScheduler() Scheduler {
	return uniformScheduler{}
}

func (uniformScheduler) Schedule(workers, height int, _ []time.Duration) []int {
	return splitEven(workers, height)
}

// The adaptive scheduler assumes that the volume of filter work
// between two subsequent runs is approximately the same and uses the
// measured band times of the previous run to rebalance rows.
type adaptiveScheduler struct {
	bands []int
}

// Create a scheduler that rebalances bands using feedback collected
// from previous runs. For band b of run i+1 the row share is estimated
// as (rows,b_i / time,b_i) / Σ(rows_i / time_i).
func NewAdaptiveScheduler() Scheduler {
	return &adaptiveScheduler{}
}

func (sch *adaptiveScheduler) Schedule(workers, height int, lastBandTime []time.Duration) []int {
	count := bandCount(workers, height)

	// Without feedback matching the current band layout the split
	// starts over from near-equal shares.
	if len(sch.bands) != count || len(lastBandTime) != count || totalRows(sch.bands) != height {
		sch.bands = splitEven(workers, height)
		return sch.bands
	}

	var total float64
	for idx, bandTime := range lastBandTime {
		total += float64(sch.bands[idx]) / float64(clampTime(bandTime))
	}

	scaler := float64(height) / total
	next := make([]int, count)
	scheduled := 0
	for idx, bandTime := range lastBandTime {
		rows := float64(sch.bands[idx]) / float64(clampTime(bandTime)) * scaler
		next[idx] = int(math.Max(1, math.Floor(rows)))
		scheduled += next[idx]
	}

	// The single-row minimum can overshoot tiny images; rows lost to
	// flooring go to the first worker.
	if scheduled > height {
		sch.bands = splitEven(workers, height)
		return sch.bands
	}
	next[0] += height - scheduled

	sch.bands = next
	return sch.bands
}

// Near-equal split with any leftover rows assigned to the first band.
func splitEven(workers, height int) []int {
	count := bandCount(workers, height)

	bands := make([]int, count)
	share := height / count
	for idx := range bands {
		bands[idx] = share
	}
	bands[0] += height - share*count
	return bands
}

// Number of bands usable for the given worker pool; every band covers
// at least one row.
func bandCount(workers, height int) int {
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func clampTime(t time.Duration) time.Duration {
	if t < 1 {
		return 1
	}
	return t
}

func totalRows(bands []int) int {
	var sum int
	for _, rows := range bands {
		sum += rows
	}
	return sum
}
