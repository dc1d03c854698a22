package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dbassani/arista-ceos-topo/pkg"
	"github.com/dbassani/arista-ceos-topo/pkg/config"
	"github.com/dbassani/arista-ceos-topo/pkg/runtime"
	"github.com/dbassani/arista-ceos-topo/pkg/topology"
)

var (
	createFlag  bool
	destroyFlag bool
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:          "ceos-topo [flags] <topology-file>",
	Short:        "cEOS lab provisioner",
	Long:         "Builds and tears down containerized cEOS labs from a declarative topology file.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command. A non-nil error maps to exit code 1.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&createFlag, "create", false, "create the lab")
	rootCmd.Flags().BoolVar(&destroyFlag, "destroy", false, "destroy the lab")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "enable debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("create", "destroy")
	rootCmd.MarkFlagsOneRequired("create", "destroy")
}

func run(cmd *cobra.Command, args []string) error {
	if debugFlag {
		log.SetLevel(log.DebugLevel)
	}
	t, err := topology.Load(args[0])
	if err != nil {
		return err
	}
	cfg := config.Load(t)
	rt, err := runtime.NewDockerRuntime()
	if err != nil {
		return err
	}
	topo, err := topology.Resolve(rt, t, cfg)
	if err != nil {
		return err
	}
	m := pkg.NewManager(rt, cfg, topo)
	if destroyFlag {
		return m.Destroy(cmd.Context())
	}
	return m.Create(cmd.Context())
}
