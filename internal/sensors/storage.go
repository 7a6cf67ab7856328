package sensors

import (
	"context"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type cachedReading struct {
	reading Reading
	readAt  time.Time
}

// StorageSensors reads a fixed list of storage devices. Results, including
// failures, are cached for cacheDuration since smartctl is slow and wakes
// sleeping disks.
type StorageSensors struct {
	sensors       []Sensor
	cacheDuration time.Duration
	timeout       time.Duration
	cache         cmap.ConcurrentMap[string, cachedReading]
	now           func() time.Time
}

func NewStorageSensors(sensors []Sensor, cacheDuration time.Duration, timeout time.Duration) *StorageSensors {
	return &StorageSensors{
		sensors:       sensors,
		cacheDuration: cacheDuration,
		timeout:       timeout,
		cache:         cmap.New[cachedReading](),
		now:           time.Now,
	}
}

func (s *StorageSensors) Sensors() []Sensor {
	return s.sensors
}

// Read returns one reading for each of the first maxDevices sensors, in configuration order.
func (s *StorageSensors) Read(ctx context.Context, maxDevices int) []Reading {
	count := min(len(s.sensors), maxDevices)
	if count <= 0 {
		return []Reading{}
	}

	readings := make([]Reading, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			readings[i] = s.read(ctx, s.sensors[i])
		}(i)
	}
	wg.Wait()
	return readings
}

func (s *StorageSensors) read(ctx context.Context, sensor Sensor) Reading {
	now := s.now()
	if cached, ok := s.cache.Get(sensor.GetId()); ok && now.Sub(cached.readAt) < s.cacheDuration {
		return cached.reading
	}

	reading := readSensor(ctx, sensor, s.timeout)
	s.cache.Set(sensor.GetId(), cachedReading{reading: reading, readAt: now})
	return reading
}
