package staging

// Config selects where uploaded job inputs are kept until a job completes.
type Config struct {
	// Driver is "local" for a directory on disk or "object" for the storage bucket.
	Driver string `mapstructure:"driver" default:"local"`
	// LocalRoot is the directory holding one sub directory per job.
	LocalRoot string `mapstructure:"local_root" default:"media/reconciliation/jobs"`
	// Prefix is the object key prefix used by the object driver.
	Prefix string `mapstructure:"prefix" default:"reconciliation/jobs"`
}

const (
	DriverLocal  = "local"
	DriverObject = "object"
)
