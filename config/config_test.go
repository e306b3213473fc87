package config

import (
	"os"
	"path/filepath"
	"testing"

	"pacbot/distance"
)

func TestDefaultMetricIsPachattan(t *testing.T) {
	c := Default()
	if c.Metric() != distance.Pachattan {
		t.Fatalf("Default().Metric() = %v, want Pachattan", c.Metric())
	}
}

func TestMetricResolvesKnownNames(t *testing.T) {
	cases := map[string]distance.Metric{
		"manhattan":        distance.Manhattan,
		"squaredEuclidean": distance.SquaredEuclidean,
		"pachattan":        distance.Pachattan,
		"":                 distance.Pachattan,
		"bogus":            distance.Pachattan,
	}
	for name, want := range cases {
		c := Config{DistanceMetric: name}
		if got := c.Metric(); got != want {
			t.Errorf("Metric(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFromYamlLoadsDefTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pacbotd.yaml")
	contents := `
kind: pacbotd
def:
  serverAddress: arbiter.local
  serverPort: 1234
  simulationMode: false
  robotAddress: robot.local
  robotPort: 5678
  gameFPS: 30
  distanceMetric: manhattan
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := FromYaml(path)
	if err != nil {
		t.Fatalf("FromYaml: %v", err)
	}
	if cfg.ServerAddress != "arbiter.local" || cfg.ServerPort != 1234 {
		t.Fatalf("unexpected server fields: %+v", cfg)
	}
	if cfg.SimulationMode {
		t.Fatal("simulationMode should have been false")
	}
	if cfg.Metric() != distance.Manhattan {
		t.Fatalf("Metric() = %v, want Manhattan", cfg.Metric())
	}
}
