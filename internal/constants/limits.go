package constants

// Numeric limits used across the dispatch and queue packages.
const (
	// DefaultWorkers is the worker count when -M is not given.
	DefaultWorkers = 1

	// MinQueueCapacity is the floor applied to rlimit-derived queue
	// capacity so that even a very restrictive RLIMIT_NOFILE still lets
	// the pipeline make progress.
	MinQueueCapacity = 4

	// SpillBatchSize is how many WorkQueue paths are grouped into a
	// single spill-file batch when the producer outruns the workers.
	SpillBatchSize = 256
)
