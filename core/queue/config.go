package queue

import "time"

// Config holds the job queue and worker tunables.
type Config struct {
	// Capacity is the maximum number of job ids waiting in the queue.
	Capacity int `mapstructure:"capacity" default:"100"`
	// SubmitTimeout bounds how long Submit waits for room in a full queue.
	SubmitTimeout time.Duration `mapstructure:"submit_timeout" default:"5s"`
	// PollTimeout bounds each wait of the worker for the next job.
	PollTimeout time.Duration `mapstructure:"poll_timeout" default:"1s"`
	// StopTimeout bounds how long shutdown waits for the worker to exit.
	StopTimeout time.Duration `mapstructure:"stop_timeout" default:"10s"`
	// ErrorBackoff is the pause after the worker loop recovers from a failure.
	ErrorBackoff time.Duration `mapstructure:"error_backoff" default:"1s"`
	// StaleAfter is the age after which a processing job is reported as stale.
	StaleAfter time.Duration `mapstructure:"stale_after" default:"30m"`
	// SweepSchedule is the cron spec of the stale job sweep. Empty disables it.
	SweepSchedule string `mapstructure:"sweep_schedule" default:"@every 5m"`
}

// WithDefaults returns a copy of c with unset durations and capacity replaced
// by their defaults.
func (c Config) WithDefaults() Config {
	if c.Capacity <= 0 {
		c.Capacity = 100
	}
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = 5 * time.Second
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = time.Second
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = 10 * time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = time.Second
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 30 * time.Minute
	}
	return c
}
