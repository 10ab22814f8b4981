package config

import "time"

// Default values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultModelPath       = "models/gesture_model.json"
	DefaultMaxMessageBytes = 64 << 10
	DefaultWriteWait       = 10 * time.Second
	DefaultPongWait        = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultONNXInputName   = "float_input"
	DefaultONNXOutputName  = "label"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.MaxMessageBytes == 0 {
		cfg.Server.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if cfg.Server.WriteWait == 0 {
		cfg.Server.WriteWait = DefaultWriteWait
	}
	if cfg.Server.PongWait == 0 {
		cfg.Server.PongWait = DefaultPongWait
	}
	// Pings go out at 90% of the pong deadline.
	if cfg.Server.PingInterval == 0 {
		cfg.Server.PingInterval = cfg.Server.PongWait * 9 / 10
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = DefaultModelPath
	}
	if cfg.Model.ONNX.InputName == "" {
		cfg.Model.ONNX.InputName = DefaultONNXInputName
	}
	if cfg.Model.ONNX.OutputName == "" {
		cfg.Model.ONNX.OutputName = DefaultONNXOutputName
	}
}
