package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const path = "infra/config"

// Load decodes the given config file into v.
// Files ending in .yaml or .yml are read as yaml, everything else as json.
func Load(file string, v interface{}) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not read config '%s': %w", file, err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, v)
	default:
		err = json.Unmarshal(b, v)
	}
	if err != nil {
		return fmt.Errorf("could not decode config '%s': %w", file, err)
	}

	log.Info().Str("file", file).Msg("loaded config")
	return nil
}

// LoadKey loads the default json config for the given key.
// A missing file is reported with fs.ErrNotExist.
func LoadKey(key string, v interface{}) error {
	return Load(filepath.Join(path, key+".json"), v)
}
