package config

const (
	defaultUploadDir     = "~/.local/share/genreshift/uploads"
	defaultOutputDir     = "~/.local/share/genreshift/transformations"
	defaultLogDir        = "~/.local/share/genreshift/logs"
	defaultAPIBind       = "127.0.0.1:8080"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultNotifyTimeout = 10
	defaultMaxUploadMiB  = 100
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir: defaultUploadDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Transform: Transform{
			MaxUploadMiB: defaultMaxUploadMiB,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Uploads:        true,
			Transforms:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
