package api

// TopoConfig is the unmarshalled topology document.
// Links is an ordered list of link declarations, each an ordered list of
// endpoint descriptors with the grammar <device>[:<interface>][:<ip/prefix>].
// The scalar fields override environment variables and built-in defaults.
type TopoConfig struct {
	Links [][]string `yaml:"links"`

	ConfDir     string `yaml:"CONF_DIR"`
	Prefix      string `yaml:"PREFIX"`
	CEOSImage   string `yaml:"CEOS_IMAGE"`
	PublishBase int    `yaml:"PUBLISH_BASE"`
	OOBPrefix   string `yaml:"OOB_PREFIX"`
}
