package config

import (
	"os"
	"strconv"

	"github.com/dbassani/arista-ceos-topo/api"
)

// Defaults used when neither the topology file nor the environment sets a value.
const (
	DefaultConfDir   = "./config"
	DefaultPrefix    = "ceos"
	DefaultCEOSImage = "ceos:latest"
	DefaultHostImage = "alpine-host:latest"
	DefaultCVPImage  = "cvp:latest"
)

// LabelKey is the label attached to every container and network created during a
// run. Its value is the lab prefix, so bulk prune operations stay scoped to one
// lab even when several run on the same host.
const LabelKey = "lab"

// Config is the immutable per-run configuration, resolved once at startup.
// Precedence for each field: topology file > environment variable > default.
type Config struct {
	ConfDir     string
	Prefix      string
	CEOSImage   string
	HostImage   string
	CVPImage    string
	PublishBase int
	OOBPrefix   string
}

// Load resolves the configuration from the topology document and the environment.
func Load(t *api.TopoConfig) Config {
	cfg := Config{
		ConfDir:     coalesce(t.ConfDir, os.Getenv("CONF_DIR"), DefaultConfDir),
		Prefix:      coalesce(t.Prefix, os.Getenv("PREFIX"), DefaultPrefix),
		CEOSImage:   coalesce(t.CEOSImage, os.Getenv("CEOS_IMAGE"), DefaultCEOSImage),
		HostImage:   DefaultHostImage,
		CVPImage:    DefaultCVPImage,
		OOBPrefix:   coalesce(t.OOBPrefix, os.Getenv("OOB_PREFIX"), ""),
		PublishBase: t.PublishBase,
	}
	if cfg.PublishBase == 0 {
		if v, err := strconv.Atoi(os.Getenv("PUBLISH_BASE")); err == nil {
			cfg.PublishBase = v
		}
	}
	return cfg
}

// Labels returns the label set stamped on every resource of this run.
func (c Config) Labels() map[string]string {
	return map[string]string{LabelKey: c.Prefix}
}

// Label returns the key=value filter string matching this run's resources.
func (c Config) Label() string {
	return LabelKey + "=" + c.Prefix
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
