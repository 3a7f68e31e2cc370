package config

import (
	"time"
)

// ExtractConfig contains the [extract] section.
type ExtractConfig struct {
	// Dir is the default destination directory.
	Dir string
	// NoOverwrite skips files that already exist at the destination.
	NoOverwrite bool
}

// ForExtract returns configuration for extraction.
func (l *Loader) ForExtract() (c ExtractConfig) {
	sec := l.section("extract")
	if sec == nil {
		return c
	}

	c.Dir = sec.Key("dir").String()
	c.NoOverwrite = sec.Key("no-overwrite").MustBool(false)

	return
}

// ForExtract calls Loader.ForExtract on the DefaultLoader instance.
func ForExtract() ExtractConfig {
	return DefaultLoader.ForExtract()
}

// DefaultProgressInterval is the default value for ProgressConfig.Interval.
const DefaultProgressInterval = 5 * time.Second

// ProgressConfig contains the [progress] section.
type ProgressConfig struct {
	// Interval is the minimum interval between two progress log lines.
	Interval time.Duration
}

// ForProgress returns configuration for progress report.
func (l *Loader) ForProgress() (c ProgressConfig) {
	c.Interval = DefaultProgressInterval

	if sec := l.section("progress"); sec != nil {
		if d := sec.Key("interval").MustDuration(DefaultProgressInterval); d > 0 {
			c.Interval = d
		}
	}

	return
}

// ForProgress calls Loader.ForProgress on the DefaultLoader instance.
func ForProgress() ProgressConfig {
	return DefaultLoader.ForProgress()
}

// ZipConfig contains the [zip] section.
type ZipConfig struct {
	// Level is the deflate level for files added to ZIP archives, between -1 (default) and 9.
	Level int
}

// ForZip returns configuration for ZIP archives.
func (l *Loader) ForZip() (c ZipConfig) {
	c.Level = -1

	if sec := l.section("zip"); sec != nil {
		if v := sec.Key("level").MustInt(-1); v >= -1 && v <= 9 {
			c.Level = v
		}
	}

	return
}

// ForZip calls Loader.ForZip on the DefaultLoader instance.
func ForZip() ZipConfig {
	return DefaultLoader.ForZip()
}
