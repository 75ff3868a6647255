package robot

import (
	"encoding/json"
	"os"
)

const DefaultMirrorFile = "mirror.json"

// MirrorConfig holds the hardware mirror settings: which serial port
// the arm is on and its servo calibration.
type MirrorConfig struct {
	Port        string      `json:"port"`
	Calibration Calibration `json:"calibration,omitempty"`
}

// IsCalibrated returns true if the mirror has calibration data.
func (c *MirrorConfig) IsCalibrated() bool {
	return len(c.Calibration) > 0
}

// LoadMirrorConfig loads mirror settings from the default file.
func LoadMirrorConfig() (*MirrorConfig, error) {
	return LoadMirrorConfigFrom(DefaultMirrorFile)
}

// LoadMirrorConfigFrom loads mirror settings from a specific file.
func LoadMirrorConfigFrom(path string) (*MirrorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg MirrorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves mirror settings to the default file.
func (c *MirrorConfig) Save() error {
	return c.SaveTo(DefaultMirrorFile)
}

// SaveTo saves mirror settings to a specific file.
func (c *MirrorConfig) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
