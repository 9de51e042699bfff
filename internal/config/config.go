package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the attendance marker. Values come from
// defaults, then an optional YAML file, then environment variables, in
// that order of precedence.
type Config struct {
	ImagesDir     string  `yaml:"images_dir"`      // enrollment images, <Label>[_suffix].<ext>
	ModelsDir     string  `yaml:"models_dir"`      // holds the persisted gallery blob
	FaceModelsDir string  `yaml:"face_models_dir"` // dlib model files for the recognizer
	LedgerPath    string  `yaml:"ledger_path"`
	Tolerance     float64 `yaml:"tolerance"`        // max embedding distance for a match
	Downscale     float64 `yaml:"downscale"`        // per-axis frame shrink factor
	CooldownSec   int     `yaml:"cooldown_seconds"` // min gap between records per label
	CameraDevice  int     `yaml:"camera_device"`
}

// Default returns the configuration matching the original system's
// constants.
func Default() Config {
	return Config{
		ImagesDir:     "images",
		ModelsDir:     "models",
		FaceModelsDir: filepath.Join("models", "dlib"),
		LedgerPath:    "Attendance.csv",
		Tolerance:     0.45,
		Downscale:     0.25,
		CooldownSec:   5,
		CameraDevice:  0,
	}
}

// Load builds the configuration. If file is non-empty it must exist and
// parse as YAML; environment variables override either way.
func Load(file string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ImagesDir = envString("ATTENDANCE_IMAGES_DIR", cfg.ImagesDir)
	cfg.ModelsDir = envString("ATTENDANCE_MODELS_DIR", cfg.ModelsDir)
	cfg.FaceModelsDir = envString("ATTENDANCE_FACE_MODELS_DIR", cfg.FaceModelsDir)
	cfg.LedgerPath = envString("ATTENDANCE_LEDGER", cfg.LedgerPath)
	cfg.Tolerance = envFloat("ATTENDANCE_TOLERANCE", cfg.Tolerance)
	cfg.Downscale = envFloat("ATTENDANCE_DOWNSCALE", cfg.Downscale)
	cfg.CooldownSec = envInt("ATTENDANCE_COOLDOWN", cfg.CooldownSec)
	cfg.CameraDevice = envInt("ATTENDANCE_CAMERA", cfg.CameraDevice)

	return &cfg, nil
}

// GalleryPath is the location of the persisted gallery blob.
func (c *Config) GalleryPath() string {
	return filepath.Join(c.ModelsDir, "gallery.gob")
}

// Cooldown returns the recognition cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSec) * time.Second
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a non-negative
// integer. Returns the default value if unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}
