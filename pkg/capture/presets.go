package capture

// Preset names for common capture configurations.
const (
	PresetDefault = "default"
	PresetLow     = "low"
	PresetHD      = "hd"
	PresetFullHD  = "1080p"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		PresetLow:     LowConfig(),
		PresetHD:      HDConfig(),
		PresetFullHD:  FullHDConfig(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		PresetLow,
		PresetHD,
		PresetFullHD,
	}
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	presets := Presets()
	if cfg, ok := presets[name]; ok {
		return &cfg
	}
	return nil
}

// LowConfig returns the minimum-CPU configuration for the slowest
// boards. Codes must fill a good part of the frame to stay readable.
func LowConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 320
	cfg.Height = 240
	cfg.FrameRate = 10
	return cfg
}

// HDConfig returns a 720p configuration.
// Picks up smaller and more distant codes at a higher CPU cost per frame.
func HDConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	cfg.FrameRate = 10
	return cfg
}

// FullHDConfig returns a 1080p configuration for dense or tiny codes.
func FullHDConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	cfg.FrameRate = 5 // Lower rate keeps decode time per frame in budget
	return cfg
}
