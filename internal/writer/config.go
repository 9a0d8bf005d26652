package writer

import "time"

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultWriterConfig returns the default writer settings.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     500,
		FlushInterval: time.Second,
	}
}

// WriterMetrics counts rows written.
type WriterMetrics struct {
	PriceInserts  int64
	VolumeInserts int64
	Conflicts     int64
	Errors        int64
	Flushes       int64
}
