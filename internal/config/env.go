package config

import (
	"os"
	"strconv"
)

// FromEnv overlays LOGGY_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("LOGGY_DATA_DIR", &cfg.DataDir)
	str("LOGGY_BACKEND", &cfg.Backend)
	str("LOGGY_TAPE_FILE", &cfg.Tape.File)
	str("LOGGY_BOX_DIR", &cfg.Box.Dir)
	str("LOGGY_BOX_NAME", &cfg.Box.Name)
	str("LOGGY_BOX_FSYNC", &cfg.Box.Fsync)
	if v := os.Getenv("LOGGY_VOLUME"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Volume = n
		}
	}
	integer("LOGGY_THRESHOLD", &cfg.Threshold)
	integer("LOGGY_PAGE_SIZE", &cfg.PageSize)
	integer("LOGGY_QUEUE_SIZE", &cfg.Recorder.QueueSize)
	str("LOGGY_OVERFLOW", &cfg.Recorder.Overflow)
	boolean("LOGGY_ECHO", &cfg.Recorder.Echo)
	str("LOGGY_EXPORT_DIR", &cfg.ExportDir)
	str("LOGGY_INTEGRATOR_EMAIL", &cfg.IntegratorEmail)
	str("LOGGY_USER_ID", &cfg.UserID)
	str("LOGGY_LOG_LEVEL", &cfg.Log.Level)
	str("LOGGY_LOG_FORMAT", &cfg.Log.Format)
	str("LOGGY_LOG_FILE", &cfg.Log.File)
	str("LOGGY_HTTP_ADDR", &cfg.Server.HTTPAddr)
	str("LOGGY_GRPC_ADDR", &cfg.Server.GRPCAddr)
}
