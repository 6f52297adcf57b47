package module

import (
	"birdwatch/internal/platform/config"
)

// Options holds configuration options for the policies module
type Options struct {
	Dir string
}

// FromConfig reads the policies options from config with POLICY_ prefix
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("POLICY_")
	return Options{
		Dir: pc.MayString("DIR", "./policies"),
	}
}
