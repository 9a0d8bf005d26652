package router

// QueueStats contains queue statistics.
type QueueStats struct {
	Count         int
	Capacity      int
	TotalReceived int64
	TotalSent     int64
	Dropped       int64 // evicted by Send on a full queue
}

// RouterStats contains runtime statistics.
type RouterStats struct {
	Routed  int64
	Refused int64 // deliveries to closed outputs
	Outputs map[string]QueueStats
}
