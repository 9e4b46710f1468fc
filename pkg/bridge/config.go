package bridge

// Config points at the bridge's file locations. The user-driven settings
// live in the YAML file at ConfigPath and are live-reloaded; everything under
// DataDir (badger db, keymap binary) is bridge-owned.
type Config struct {
	DataDir    string `json:"dataDir"`
	ConfigPath string `json:"configPath"`
}

// Settings is the user-driven configuration, applied between events at the
// capture loop's yield checkpoint.
type Settings struct {
	// QueueSize bounds the transmit queues. Full queues drop events.
	QueueSize int `json:"queueSize"`
	// Mouse enables the mouse link engine.
	Mouse bool `json:"mouse"`
}

func DefaultSettings() Settings {
	return Settings{
		QueueSize: 64,
		Mouse:     true,
	}
}
