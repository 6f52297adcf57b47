package module

import (
	"birdwatch/internal/platform/config"
)

// Options holds configuration options for the scan service
type Options struct {
	Concurrency int

	// SampleFile switches the post source to a pre-generated file when set
	SampleFile string
}

// FromConfig reads the scan options from config with SCAN_ prefix
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("SCAN_")
	return Options{
		Concurrency: sc.MayInt("CONCURRENCY", 8),
		SampleFile:  sc.MayString("SAMPLE_FILE", ""),
	}
}
