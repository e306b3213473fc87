// Package config loads the core's startup configuration. It follows the
// double-hop viper/yaml pattern: viper reads the file into a generic map
// (so it doesn't need to know this package's field names or types up
// front), then that map is re-marshaled and unmarshaled into the typed
// Config struct below.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pacbot/distance"
)

// Config holds every option the core reads once at startup. The yaml tags
// are all lowercase because viper lowercases every key it reads, so a file
// key such as serverAddress reaches the second hop as serveraddress.
type Config struct {
	ServerAddress string `yaml:"serveraddress"`
	ServerPort    int    `yaml:"serverport"`

	SimulationMode bool `yaml:"simulationmode"`

	RobotAddress       string `yaml:"robotaddress"`
	RobotPort          int    `yaml:"robotport"`
	ReliabilityEnabled bool   `yaml:"reliabilityenabled"`

	GameFPS int `yaml:"gamefps"`

	// UpdatePeriod seeds GameState.UpdatePeriod before the arbiter sends a
	// real value; the arbiter's own value is authoritative after that.
	UpdatePeriod int `yaml:"updateperiod"`

	// DistanceMetric selects among "manhattan", "squaredEuclidean", and
	// "pachattan" (the default).
	DistanceMetric string `yaml:"distancemetric"`
}

// outerDoc mirrors viper's generic top-level unmarshal target; this level
// of indirection is what lets viper own file-format parsing without
// needing to know Config's shape.
type outerDoc struct {
	Def interface{} `mapstructure:"def"`
}

// Default returns the zero-value-safe configuration used before any file
// is loaded or when no config path is given.
func Default() Config {
	return Config{
		ServerAddress:  "localhost",
		ServerPort:     9000,
		SimulationMode: true,
		RobotAddress:   "localhost",
		RobotPort:      9001,
		GameFPS:        60,
		UpdatePeriod:   12,
		DistanceMetric: "pachattan",
	}
}

// FromYaml loads a Config from a YAML file at path.
func FromYaml(path string) (Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var outer outerDoc
	if err := vp.Unmarshal(&outer); err != nil {
		return Config{}, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(spec, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Metric resolves the configured distance metric name to a distance.Metric,
// defaulting to Pachattan for an empty or unrecognized value.
func (c Config) Metric() distance.Metric {
	switch c.DistanceMetric {
	case "manhattan":
		return distance.Manhattan
	case "squaredEuclidean":
		return distance.SquaredEuclidean
	default:
		return distance.Pachattan
	}
}
