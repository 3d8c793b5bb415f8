package config

const (
	defaultTitle         = -1
	defaultOpticalDrive  = "/dev/sr0"
	defaultScanCachePath = "~/.cache/dvdstream/scans.db"
	defaultLogDir        = "~/.local/share/dvdstream/logs"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// TitleMin and TitleMax bound the source.title option; -1 means unset.
const (
	TitleMin = -1
	TitleMax = 99999
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Source: Source{
			Title:        defaultTitle,
			OpticalDrive: defaultOpticalDrive,
		},
		ScanCache: ScanCache{
			Enabled: true,
			Path:    defaultScanCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
	}
}
