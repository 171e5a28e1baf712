package core

// Stats accumulates per-worker render statistics. Each worker owns
// its own instance; the renderer merges them once rendering is done,
// keeping counters off the hot path's shared state.
type Stats struct {
	// TotalPaths counts path-traced camera samples that reached a
	// scattering vertex
	TotalPaths int64
	// ZeroRadiancePaths counts direct-lighting estimates that came
	// back black
	ZeroRadiancePaths int64
	// PathLengthSum and PathCount track the bounce-count distribution
	PathLengthSum int64
	PathCount     int64
	MaxPathLength int
	// ShadowRays counts occlusion queries issued
	ShadowRays int64
}

// RecordPathLength reports the number of bounces a finished path took
func (s *Stats) RecordPathLength(bounces int) {
	if s == nil {
		return
	}
	s.PathLengthSum += int64(bounces)
	s.PathCount++
	if bounces > s.MaxPathLength {
		s.MaxPathLength = bounces
	}
}

// RecordDirectEstimate reports one direct-lighting estimate and
// whether it contributed any radiance
func (s *Stats) RecordDirectEstimate(black bool) {
	if s == nil {
		return
	}
	s.TotalPaths++
	if black {
		s.ZeroRadiancePaths++
	}
}

// RecordShadowRay counts one occlusion query
func (s *Stats) RecordShadowRay() {
	if s == nil {
		return
	}
	s.ShadowRays++
}

// Merge folds another worker's counters into s
func (s *Stats) Merge(other *Stats) {
	if s == nil || other == nil {
		return
	}
	s.TotalPaths += other.TotalPaths
	s.ZeroRadiancePaths += other.ZeroRadiancePaths
	s.PathLengthSum += other.PathLengthSum
	s.PathCount += other.PathCount
	s.ShadowRays += other.ShadowRays
	if other.MaxPathLength > s.MaxPathLength {
		s.MaxPathLength = other.MaxPathLength
	}
}

// AveragePathLength returns the mean bounce count of recorded paths
func (s *Stats) AveragePathLength() float64 {
	if s == nil || s.PathCount == 0 {
		return 0
	}
	return float64(s.PathLengthSum) / float64(s.PathCount)
}
