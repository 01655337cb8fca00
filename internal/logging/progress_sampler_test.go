package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(5, 10) {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset() // should not panic
}

func TestProgressSampler_EmitsOncePerBucket(t *testing.T) {
	s := NewProgressSampler(10)
	emitted := 0
	for done := 0; done <= 1000; done++ {
		if s.ShouldLog(done, 1000) {
			emitted++
		}
	}
	// buckets 0..9 plus the final line
	if emitted != 11 {
		t.Fatalf("emitted %d progress lines, want 11", emitted)
	}
}

func TestProgressSampler_FinalLineOnlyOnce(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(3, 3) {
		t.Fatal("expected completion to log")
	}
	if s.ShouldLog(3, 3) {
		t.Fatal("expected repeated completion to be suppressed")
	}
	s.Reset()
	if !s.ShouldLog(3, 3) {
		t.Fatal("expected completion to log again after Reset")
	}
}

func TestProgressSampler_ZeroTotal(t *testing.T) {
	s := NewProgressSampler(10)
	if s.ShouldLog(0, 0) {
		t.Fatal("expected no progress for empty totals")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 10, 0},
		{5, 10, 50},
		{12, 10, 100},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}
