package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveOverlay writes the user-editable overlay atomically: tmp file, keep a
// .bak of the previous version, then rename into place.
func SaveOverlay(path string, cfg Config) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

// OverlayPath returns the overlay location inside the data dir.
func OverlayPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yml")
}
