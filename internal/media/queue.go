package media

import (
	"sync"
	"time"

	"video-gallery/internal/logging"
	"video-gallery/internal/metrics"
)

// Job describes one generation task. OutputPath is the job identity:
// two jobs with the same output are the same job.
type Job struct {
	SourcePath string
	OutputPath string
	// Label names the video in logs, usually the library-relative path.
	Label string
	// Duration is the source duration in seconds. Only preview jobs
	// use it.
	Duration float64
}

// RunFunc executes a generation job.
type RunFunc func(job Job) error

// Queue is a strictly serial job queue with a FIFO backlog and an
// in-flight set. The set guards both the backlog and the executing job,
// so re-enqueueing an output path is a no-op until its job has finished
// either way.
type Queue struct {
	name string
	run  RunFunc

	mu       sync.Mutex
	backlog  []Job
	inFlight map[string]bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewQueue creates a queue named name (used in logs and metrics) that
// executes jobs with run. Call Start before enqueueing.
func NewQueue(name string, run RunFunc) *Queue {
	return &Queue{
		name:     name,
		run:      run,
		inFlight: make(map[string]bool),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the single worker goroutine.
func (q *Queue) Start() {
	go q.worker()
}

// Stop tells the worker to exit after its current job and waits for it.
func (q *Queue) Stop() {
	close(q.stop)
	<-q.done
}

// Enqueue adds a job unless its output path is already queued or
// executing. It reports whether the job was admitted.
func (q *Queue) Enqueue(job Job) bool {
	q.mu.Lock()
	if q.inFlight[job.OutputPath] {
		q.mu.Unlock()
		metrics.QueueJobsDeduplicated.WithLabelValues(q.name).Inc()
		return false
	}
	q.inFlight[job.OutputPath] = true
	q.backlog = append(q.backlog, job)
	depth := len(q.backlog)
	q.mu.Unlock()

	metrics.QueueDepth.WithLabelValues(q.name).Set(float64(depth))
	logging.Info("Added to %s queue: %s (backlog: %d)", q.name, job.Label, depth)

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the backlog length plus any executing job.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inFlight)
}

// worker drains the backlog one job at a time until stopped.
func (q *Queue) worker() {
	defer close(q.done)

	for {
		job, ok := q.next()
		if !ok {
			select {
			case <-q.wake:
				continue
			case <-q.stop:
				return
			}
		}

		q.process(job)

		select {
		case <-q.stop:
			return
		default:
		}
	}
}

// next pops the backlog head. The job stays in the in-flight set until
// process finishes it.
func (q *Queue) next() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.backlog) == 0 {
		return Job{}, false
	}

	job := q.backlog[0]
	q.backlog = q.backlog[1:]
	metrics.QueueDepth.WithLabelValues(q.name).Set(float64(len(q.backlog)))
	return job, true
}

// process runs a job to completion or failure and releases its output
// path. Failures are terminal: the job is discarded, not retried.
func (q *Queue) process(job Job) {
	logging.Info("Processing %s queue: %s", q.name, job.Label)
	start := time.Now()

	err := q.run(job)

	q.mu.Lock()
	delete(q.inFlight, job.OutputPath)
	q.mu.Unlock()

	metrics.QueueJobDuration.WithLabelValues(q.name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.QueueJobsTotal.WithLabelValues(q.name, "error").Inc()
		logging.Error("Error generating %s for %s: %v", q.name, job.Label, err)
		return
	}

	metrics.QueueJobsTotal.WithLabelValues(q.name, "success").Inc()
	logging.Success("Generated %s for: %s", q.name, job.Label)
}
