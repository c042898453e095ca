package backend

import (
	"sort"
	"sync"
)

// Sample is a single recorded measurement on one channel.
type Sample struct {
	TimestampNS int64
	Value       float64
}

// ChannelSnapshot is an immutable view of a Series captured at one
// moment. Times and Values alias the Series' append-only storage, so
// reads through an old snapshot stay valid after later inserts.
type ChannelSnapshot struct {
	Name     string
	Unit     string
	Times    []int64
	Values   []float64
	ValueMin float64
	ValueMax float64
}

func (c ChannelSnapshot) Len() int {
	return len(c.Times)
}

// Series represents one channel of a trace: a time-ordered sequence of
// samples sharing a name and unit.
type Series struct {
	lock               sync.RWMutex
	times              []int64
	values             []float64
	valueMin, valueMax float64
	name               string
	unit               string
	initialized        bool
}

func NewSeries(name, unit string) *Series {
	return &Series{name: name, unit: unit}
}

func (s *Series) Name() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.name
}

func (s *Series) Unit() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.unit
}

func (s *Series) Initialized() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.initialized
}

func (s *Series) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.times)
}

func (s *Series) Domain() (min int64, max int64) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if len(s.times) == 0 {
		return 0, 0
	}
	return s.times[0], s.times[len(s.times)-1]
}

func (s *Series) ValueRange() (min float64, max float64) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.valueMin, s.valueMax
}

// Insert adds a sample to the series. Timestamps must be non-decreasing;
// a sample older than the newest recorded one is rejected and the method
// returns false.
func (s *Series) Insert(sample Sample) (inserted bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.times) > 0 && s.times[len(s.times)-1] > sample.TimestampNS {
		return false
	}
	if !s.initialized {
		s.valueMin = sample.Value
		s.valueMax = sample.Value
		s.initialized = true
	} else {
		s.valueMin = min(s.valueMin, sample.Value)
		s.valueMax = max(s.valueMax, sample.Value)
	}
	s.times = append(s.times, sample.TimestampNS)
	s.values = append(s.values, sample.Value)
	return true
}

// Snapshot captures the current contents of the series. The returned
// slices must be treated as read-only.
func (s *Series) Snapshot() ChannelSnapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return ChannelSnapshot{
		Name:     s.name,
		Unit:     s.unit,
		Times:    s.times[:len(s.times):len(s.times)],
		Values:   s.values[:len(s.values):len(s.values)],
		ValueMin: s.valueMin,
		ValueMax: s.valueMax,
	}
}

// StatsBetween returns statistics about the samples recorded in the
// half-open time interval [timestampA,timestampB). If timestampB is less
// than timestampA, the reversed interval is used. If no sample falls
// within the interval, ok is false.
func (s *Series) StatsBetween(timestampA, timestampB int64) (maximum, mean, minimum float64, ok bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if len(s.times) < 1 {
		return 0, 0, 0, false
	}
	if timestampB < timestampA {
		timestampA, timestampB = timestampB, timestampA
	}
	indexA := sort.Search(len(s.times), func(i int) bool {
		return s.times[i] >= timestampA
	})
	if indexA == len(s.times) {
		return 0, 0, 0, false
	}
	indexB := sort.Search(len(s.times), func(i int) bool {
		return s.times[i] >= timestampB
	})
	if indexA == indexB {
		return 0, 0, 0, false
	}
	values := s.values[indexA:indexB]
	var sum float64
	for i, v := range values {
		if i == 0 {
			maximum = v
			minimum = v
		} else {
			maximum = max(maximum, v)
			minimum = min(minimum, v)
		}
		sum += v
	}
	mean = sum / float64(len(values))
	return maximum, mean, minimum, true
}
