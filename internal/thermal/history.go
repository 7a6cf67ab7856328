package thermal

// ring is a fixed capacity sample buffer. Once full, the oldest sample is overwritten.
type ring struct {
	samples []float64
	next    int
	count   int
}

func newRing(capacity int) ring {
	return ring{samples: make([]float64, capacity)}
}

func (r *ring) add(value float64) {
	r.samples[r.next] = value
	r.next = (r.next + 1) % len(r.samples)
	if r.count < len(r.samples) {
		r.count++
	}
}

// at returns the i-th valid sample in chronological order, 0 being the oldest
func (r *ring) at(i int) float64 {
	start := (r.next - r.count + len(r.samples)) % len(r.samples)
	return r.samples[(start+i)%len(r.samples)]
}

func (r *ring) average() float64 {
	if r.count == 0 {
		return 0
	}
	return r.mean(0, r.count)
}

// trend is the mean of the most recent half minus the mean of the least recent half.
// With an odd count the middle sample belongs to neither half.
func (r *ring) trend() float64 {
	if r.count < 3 {
		return 0
	}
	half := r.count / 2
	older := r.mean(0, half)
	recent := r.mean(r.count-half, r.count)
	return recent - older
}

func (r *ring) mean(from, to int) float64 {
	sum := 0.0
	for i := from; i < to; i++ {
		sum += r.at(i)
	}
	return sum / float64(to-from)
}

// History tracks the last N CPU and storage temperatures.
type History struct {
	cpu     ring
	storage ring
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		cpu:     newRing(capacity),
		storage: newRing(capacity),
	}
}

// Record adds one sample per device class and returns the moving averages and trends.
func (h *History) Record(cpu, storage float64) (cpuAvg, storageAvg, cpuTrend, storageTrend float64) {
	h.cpu.add(cpu)
	h.storage.add(storage)
	return h.cpu.average(), h.storage.average(), h.cpu.trend(), h.storage.trend()
}

// Len is the number of valid samples, never more than Capacity.
func (h *History) Len() int {
	return h.cpu.count
}

func (h *History) Capacity() int {
	return len(h.cpu.samples)
}

// CpuSamples returns the valid CPU samples, oldest first
func (h *History) CpuSamples() []float64 {
	return h.cpu.values()
}

// StorageSamples returns the valid storage samples, oldest first
func (h *History) StorageSamples() []float64 {
	return h.storage.values()
}

func (r *ring) values() []float64 {
	result := make([]float64, r.count)
	for i := range result {
		result[i] = r.at(i)
	}
	return result
}
