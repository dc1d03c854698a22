package topology

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	doc := `
PREFIX: mylab
CEOS_IMAGE: ceos:4.32
PUBLISH_BASE: 8000
links:
  - ["r1:Eth1", "r2:Eth1"]
  - ["r1:Eth2", "host-1:Eth1:10.0.0.2/24"]
`
	path := filepath.Join(t.TempDir(), "topo.yml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prefix != "mylab" || cfg.CEOSImage != "ceos:4.32" || cfg.PublishBase != 8000 {
		t.Errorf("overrides = %q/%q/%d, want mylab/ceos:4.32/8000", cfg.Prefix, cfg.CEOSImage, cfg.PublishBase)
	}
	if len(cfg.Links) != 2 || len(cfg.Links[1]) != 2 {
		t.Errorf("links = %v", cfg.Links)
	}
	if cfg.Links[1][1] != "host-1:Eth1:10.0.0.2/24" {
		t.Errorf("endpoint = %s", cfg.Links[1][1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topo.yml")
	if err := os.WriteFile(path, []byte("links: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for bad yaml")
	}
}
