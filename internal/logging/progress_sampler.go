package logging

// ProgressSampler suppresses repetitive progress logs for long per-item loops,
// emitting only when the completed share crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the completed
// percentage crosses bucket boundaries (default 10%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether progress at done/total should be logged. The
// final item always logs so the loop ends with a complete line.
func (s *ProgressSampler) ShouldLog(done, total int) bool {
	if s == nil {
		return true
	}
	if total <= 0 {
		return false
	}
	if done >= total {
		if s.lastBucket == s.finalBucket() {
			return false
		}
		s.lastBucket = s.finalBucket()
		return true
	}
	percent := float64(done) * 100 / float64(total)
	bucket := int(percent / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Percent returns done/total as a percentage clamped to [0, 100].
func Percent(done, total int) float64 {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return float64(done) * 100 / float64(total)
}

// Reset clears the sampler state (e.g. when a new content kind starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}

func (s *ProgressSampler) finalBucket() int {
	return int(100/s.bucketSize) + 1
}
