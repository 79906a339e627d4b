package config

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"tilegrid/grid"
)

const DefaultFileName = "tilegrid.yaml"

type Config struct {
	Grid    grid.Settings     `yaml:"grid"`
	Tiles   grid.TileSettings `yaml:"tiles"`
	Storage StorageConfig     `yaml:"storage"`
	Server  ServerConfig      `yaml:"server"`
	Import  ImportConfig      `yaml:"import"`
}

type StorageConfig struct {
	Path string `yaml:"path"` // SQLite database file of the snapshot store.
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type ImportConfig struct {
	UnitsPerDegree float64 `yaml:"unitsPerDegree"` // World units per degree longitude/latitude.
	HeightPerNode  float64 `yaml:"heightPerNode"`
}

func Default() *Config {
	return &Config{
		Grid:  grid.DefaultSettings(),
		Tiles: grid.DefaultTileSettings(),
		Storage: StorageConfig{
			Path: "tilegrid.db",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Import: ImportConfig{
			UnitsPerDegree: 10000,
			HeightPerNode:  0.1,
		},
	}
}

// Load reads the given YAML file on top of the defaults. Values missing in the file keep their default. An empty path
// uses DefaultFileName in the working directory if it exists and the plain defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err != nil {
			sigolo.Debugf("No config file given and no %s found, use defaults", DefaultFileName)
			return cfg, nil
		}
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read config file %s", path)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse config file %s", path)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid config file %s", path)
	}

	sigolo.Debugf("Loaded config from %s", path)
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Grid.CellSize <= 0 {
		return errors.Wrapf(grid.ErrInvalidCellSize, "Config has cell size %f", c.Grid.CellSize)
	}
	if c.Grid.Extent < 0 {
		return errors.Wrapf(grid.ErrInvalidExtent, "Config has extent %d", c.Grid.Extent)
	}
	if c.Import.UnitsPerDegree <= 0 {
		return errors.Errorf("Units per degree must be greater than zero but was %f", c.Import.UnitsPerDegree)
	}
	return nil
}

// SaveTo writes the config to the given path and creates missing parent directories.
func (c *Config) SaveTo(path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return errors.Wrapf(err, "Unable to create directory for config file %s", path)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "Unable to marshal config")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0644), "Unable to write config file %s", path)
}
