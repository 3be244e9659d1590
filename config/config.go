// Package config holds the launch options read once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid launch options")

// Launch configures the window, the tick cadence and where content comes
// from.
type Launch struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// TPS is the variable-rate Update cadence; FixedRate the FixedUpdate one.
	TPS       int     `yaml:"tps"`
	FixedRate int     `yaml:"fixed_rate"`
	TimeScale float64 `yaml:"time_scale"`
	// MaxFixedSteps caps catch-up FixedUpdates per frame.
	MaxFixedSteps int `yaml:"max_fixed_steps"`

	// ContentRoot is a directory overlaid on the embedded assets.
	ContentRoot string `yaml:"content_root"`
	Scene       string `yaml:"scene"`

	Validate bool `yaml:"validate"`
	Debug    bool `yaml:"debug"`
	Watch    bool `yaml:"watch"`
}

func Default() Launch {
	return Launch{
		Title:         "engine",
		Width:         1280,
		Height:        720,
		TPS:           60,
		FixedRate:     50,
		TimeScale:     1,
		MaxFixedSteps: 5,
		ContentRoot:   "assets",
		Scene:         "scenes/demo.yaml",
	}
}

// Parse overlays YAML onto the defaults.
func Parse(data []byte) (Launch, error) {
	l := Default()
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Launch{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := l.Check(); err != nil {
		return Launch{}, err
	}
	return l, nil
}

// Load reads and parses a launch file. A missing file yields an error
// wrapping fs.ErrNotExist so callers can fall back to Default.
func Load(path string) (Launch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Launch{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return Launch{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return l, nil
}

// Check validates the options.
func (l Launch) Check() error {
	switch {
	case l.Width <= 0 || l.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, l.Width, l.Height)
	case l.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, l.TPS)
	case l.FixedRate <= 0:
		return fmt.Errorf("%w: fixed_rate %d", ErrInvalid, l.FixedRate)
	case l.TimeScale < 0:
		return fmt.Errorf("%w: time_scale %v", ErrInvalid, l.TimeScale)
	case l.MaxFixedSteps < 1:
		return fmt.Errorf("%w: max_fixed_steps %d", ErrInvalid, l.MaxFixedSteps)
	}
	return nil
}

// FixedStep is the simulated time covered by one FixedUpdate.
func (l Launch) FixedStep() time.Duration {
	if l.FixedRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(l.FixedRate)
}

// FrameStep is the nominal time covered by one Update.
func (l Launch) FrameStep() time.Duration {
	if l.TPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(l.TPS)
}
