package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/thavlik/foldy-prep/logging"
	"github.com/thavlik/foldy-prep/pdbindex"
	"github.com/thavlik/foldy-prep/rcsb"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	log     *zap.Logger
	fs      afero.Fs
	out     io.Writer
	rng     *rand.Rand
}

func newApp() *app {
	return &app{
		v:   viper.New(),
		fs:  afero.NewOsFs(),
		out: os.Stdout,
	}
}

func (a *app) config() *Config {
	return loadConfig(a.v)
}

func (a *app) loadIndex() (pdbindex.Index, error) {
	cfg := a.config()
	if cfg.IndexRedis != "" {
		store, err := pdbindex.NewRedisStore(cfg.IndexRedis, cfg.IndexRedisPrefix)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load()
	}
	return pdbindex.LoadFs(a.fs, cfg.IndexDir, cfg.IndexFile)
}

func (a *app) downloader() *rcsb.Downloader {
	d := rcsb.NewDownloader(a.log)
	d.BaseURL = a.config().BaseURL
	d.Fs = a.fs
	return d
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "foldy-prep",
		Short: "Prepare protein structures for GROMACS simulation",
		Long: `foldy-prep selects PDB IDs from a precomputed index, downloads
complete structure files from RCSB and drives the GROMACS tooling
that prepares them for simulation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(a.v, cmd.Flags())
			if err := readConfig(a.v, a.cfgFile); err != nil {
				return fmt.Errorf("config: %v", err)
			}
			if a.log != nil {
				return nil
			}
			log, err := logging.New(a.config().Verbose)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	a.v.SetFs(a.fs)
	setDefaults(a.v)
	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.foldy.yaml)")
	flags.Bool("verbose", false, "enable debug logging")
	flags.String("index-dir", "", "directory holding the pdb index")
	flags.String("index-file", "", "pdb index file name (.json or .yaml)")
	flags.String("index-redis", "", "load the pdb index from this redis address instead of a file")
	flags.String("index-redis-prefix", "", "key prefix of the redis pdb index")
	flags.String("pdb-dir", "", "directory for downloaded structure files")
	flags.String("rcsb-url", "", "base URL of the structure download service")

	root.AddCommand(
		a.selectCmd(),
		a.downloadCmd(),
		a.runCmd(),
		a.prepareCmd(),
		a.gatherCmd(),
		a.forceFieldsCmd(),
		a.simulateCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newApp().rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
