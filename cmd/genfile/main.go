package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/internal/config"
	"github.com/arloliu/genfile/internal/logger"
)

var version = "0.1.0"

// app carries the state shared by all sub commands.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	cfgFile string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "genfile",
		Short: "Inspect, dump, compare and update generic data files",
		Long: `genfile works with self-describing generic data files: data groups of
datasets with typed columns, named parameters and provenance headers.`,
		SilenceUsage:  true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml or toml)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.Bool("mmap", false, "memory map input files")
	pf.Bool("eager", false, "read every payload when a file is opened")
	pf.Bool("sync", true, "fsync files after writing")

	for key, flag := range map[string]string{
		"log.level": "log-level",
		"mmap":      "mmap",
		"eager":     "eager",
		"sync":      "sync",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.newInfoCmd(),
		a.newDumpCmd(),
		a.newCatCmd(),
		a.newCheckCmd(),
		a.newAppendCmd(),
		a.newSetParamCmd(),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger.Get().With(zap.String("command", cmd.Name()))

	return nil
}

// openOptions returns the container options selected by the configuration.
func (a *app) openOptions() []container.Option {
	opts := []container.Option{container.WithLogger(a.logger), container.WithSync(a.cfg.Sync)}
	if a.cfg.Mmap {
		opts = append(opts, container.WithMmap())
	}
	if a.cfg.Eager {
		opts = append(opts, container.WithEagerLoad())
	}

	return opts
}
