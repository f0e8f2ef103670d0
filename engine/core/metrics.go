package core

import (
	"sync"

	"github.com/spaghettifunk/prelight/engine/containers"
)

const AVG_COUNT int = 30

type MetricsState struct {
	// last AVG_COUNT frame times in milliseconds
	frameTimes         *containers.RingQueue[float64]
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			frameTimes: containers.NewRingQueue[float64](AVG_COUNT),
		}
	})
	return nil
}

func MetricsUpdate(frame_elapsed_time float64) {
	if metricsState == nil {
		_ = MetricsInitialize()
	}
	// Calculate frame ms average
	frame_ms := (frame_elapsed_time * 1000.0)
	metricsState.frameTimes.Overwrite(frame_ms)
	var total float64
	metricsState.frameTimes.Each(func(ms float64) {
		total += ms
	})
	metricsState.MSavg = total / float64(metricsState.frameTimes.Len())

	// Calculate Frames per second.
	metricsState.AccumulatedFrameMS += frame_ms
	if metricsState.AccumulatedFrameMS > 1000 {
		metricsState.FPS = float64(metricsState.Frames)
		metricsState.AccumulatedFrameMS -= 1000
		metricsState.Frames = 0
	}

	// Count all Frames.
	metricsState.Frames++
}

func MetricsFPS() float64 {
	if metricsState == nil {
		return 0
	}
	return metricsState.FPS
}

func MetricsFrameTime() float64 {
	if metricsState == nil {
		return 0
	}
	return metricsState.MSavg
}

func MetricsFrame() (float64, float64) {
	return MetricsFPS(), MetricsFrameTime()
}

// RenderStats collects the per-frame GPU usage counters reported by the
// render pipeline. Counters are reset by the pipeline at the start of each frame.
type RenderStats struct {
	mutex sync.Mutex

	DrawCalls         uint32
	Triangles         uint32
	MeshCount         uint32
	SkinnedMeshCount  uint32
	LightCount        uint32
	LastFrameSnapshot RenderStatsSnapshot
}

// RenderStatsSnapshot is a copy of the counters taken when a frame is reset.
type RenderStatsSnapshot struct {
	DrawCalls        uint32
	Triangles        uint32
	MeshCount        uint32
	SkinnedMeshCount uint32
	LightCount       uint32
}

func NewRenderStats() *RenderStats {
	return &RenderStats{}
}

func (rs *RenderStats) IncreaseDrawCall() {
	rs.mutex.Lock()
	rs.DrawCalls++
	rs.mutex.Unlock()
}

// IncreaseTriangleCount takes the index count of the draw, three indices per triangle.
func (rs *RenderStats) IncreaseTriangleCount(indexCount uint32) {
	rs.mutex.Lock()
	rs.Triangles += indexCount / 3
	rs.mutex.Unlock()
}

func (rs *RenderStats) IncreaseMeshCount() {
	rs.mutex.Lock()
	rs.MeshCount++
	rs.mutex.Unlock()
}

func (rs *RenderStats) IncreaseSkinnedMeshCount() {
	rs.mutex.Lock()
	rs.SkinnedMeshCount++
	rs.mutex.Unlock()
}

func (rs *RenderStats) IncreaseLightCount() {
	rs.mutex.Lock()
	rs.LightCount++
	rs.mutex.Unlock()
}

// ResetFrame stores the current counters in LastFrameSnapshot and zeroes them.
func (rs *RenderStats) ResetFrame() {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	rs.LastFrameSnapshot = RenderStatsSnapshot{
		DrawCalls:        rs.DrawCalls,
		Triangles:        rs.Triangles,
		MeshCount:        rs.MeshCount,
		SkinnedMeshCount: rs.SkinnedMeshCount,
		LightCount:       rs.LightCount,
	}
	rs.DrawCalls = 0
	rs.Triangles = 0
	rs.MeshCount = 0
	rs.SkinnedMeshCount = 0
	rs.LightCount = 0
}

// Snapshot returns the counters of the frame in progress.
func (rs *RenderStats) Snapshot() RenderStatsSnapshot {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()
	return RenderStatsSnapshot{
		DrawCalls:        rs.DrawCalls,
		Triangles:        rs.Triangles,
		MeshCount:        rs.MeshCount,
		SkinnedMeshCount: rs.SkinnedMeshCount,
		LightCount:       rs.LightCount,
	}
}
