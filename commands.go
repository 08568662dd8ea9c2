package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thavlik/foldy-prep/fsutil"
	"github.com/thavlik/foldy-prep/gromacs"
	"github.com/thavlik/foldy-prep/pdbindex"
	"github.com/thavlik/foldy-prep/proteinnet"
)

func gmxFlags(cmd *cobra.Command) {
	cmd.Flags().String("gmx", "", "gmx binary")
	cmd.Flags().String("mdp-dir", "", "directory holding ions.mdp and emin.mdp")
	cmd.Flags().String("forcefield", "", fmt.Sprintf("force field, one of %s", strings.Join(gromacs.ForceFields(), ", ")))
	cmd.Flags().String("box", "", "editconf box type")
	cmd.Flags().String("work-dir", "", "parent directory for per-structure working directories")
}

func (a *app) selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Print a random PDB ID from the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.loadIndex()
			if err != nil {
				return err
			}
			id, err := pdbindex.SelectRandom(idx, a.rng)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
}

func (a *app) downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download [file]...",
		Short: "Download structure files from RCSB, e.g. 1aki.pdb",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config()
			if err := fsutil.EnsureDir(a.fs, a.log, cfg.PDBDir); err != nil {
				return err
			}
			d := a.downloader()
			for _, id := range args {
				if err := d.Download(cmd.Context(), cfg.PDBDir, id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [command-file]",
		Short: "Run the commands in a file, one per line, stopping at the first failure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fs.Open(args[0])
			if err != nil {
				return fmt.Errorf("open: %v", err)
			}
			defer f.Close()
			cmds, err := gromacs.ParseCommands(f)
			if err != nil {
				return fmt.Errorf("%s: %v", args[0], err)
			}
			return gromacs.NewRunner(a.log).Run(cmd.Context(), cmds, a.config().SuppressOutput)
		},
	}
	cmd.Flags().Bool("suppress-output", true, "do not log the stdout of successful commands")
	return cmd
}

func (a *app) prepareParams(id string) gromacs.Params {
	cfg := a.config()
	return gromacs.Params{
		Gmx:        cfg.Gmx,
		PDBFile:    filepath.Join(cfg.PDBDir, id+".pdb"),
		ForceField: cfg.ForceField,
		Box:        cfg.Box,
		MdpDir:     cfg.MdpDir,
		WorkDir:    filepath.Join(cfg.WorkDir, id),
	}
}

func (a *app) prepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare [pdb-id]",
		Short: "Print the GROMACS preparation commands for a PDB ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := gromacs.PrepareCommands(a.prepareParams(strings.ToLower(args[0])))
			if err != nil {
				return err
			}
			for _, c := range cmds {
				fmt.Fprintln(a.out, c)
			}
			return nil
		},
	}
	gmxFlags(cmd)
	return cmd
}

func (a *app) gatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gather [proteinnet-file]",
		Short: "Build the PDB index from a ProteinNet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fs.Open(args[0])
			if err != nil {
				return fmt.Errorf("open: %v", err)
			}
			defer f.Close()
			records, err := proteinnet.ReadAll(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("proteinnet: %v", err)
			}
			idx, err := pdbindex.FromRecords(records)
			if err != nil {
				return err
			}
			cfg := a.config()
			if cfg.IndexRedis != "" {
				store, err := pdbindex.NewRedisStore(cfg.IndexRedis, cfg.IndexRedisPrefix)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Save(idx); err != nil {
					return err
				}
			} else {
				path := filepath.Join(cfg.IndexDir, cfg.IndexFile)
				if err := idx.Save(a.fs, path); err != nil {
					return err
				}
			}
			a.log.Info("Gathered PDB index",
				zap.Int("records", len(records)),
				zap.Int("categories", len(idx)),
				zap.Int("ids", idx.Len()))
			return nil
		},
	}
}

func (a *app) forceFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forcefields",
		Short: "List force fields and their recommended water models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ff := range gromacs.ForceFields() {
				water, _ := gromacs.WaterModel(ff)
				fmt.Fprintf(a.out, "%s\t%s\n", ff, water)
			}
			return nil
		},
	}
}

func (a *app) simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [pdb-id]",
		Short: "Download a structure and run GROMACS preparation on it",
		Long: `Downloads <pdb-id>.pdb (or a random ID from the index when none is
given) and runs pdb2gmx through energy minimization in its own
working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = strings.ToLower(args[0])
			} else {
				idx, err := a.loadIndex()
				if err != nil {
					return err
				}
				if id, err = pdbindex.SelectRandom(idx, a.rng); err != nil {
					return err
				}
			}
			cfg := a.config()
			params := a.prepareParams(id)
			a.log.Info("Preparing structure",
				zap.String("pdb", id),
				zap.String("forcefield", params.ForceField))
			for _, dir := range []string{cfg.PDBDir, params.WorkDir} {
				if err := fsutil.EnsureDir(a.fs, a.log, dir); err != nil {
					return err
				}
			}
			if err := a.downloader().Download(cmd.Context(), cfg.PDBDir, id+".pdb"); err != nil {
				return err
			}
			cmds, err := gromacs.PrepareCommands(params)
			if err != nil {
				return err
			}
			if err := gromacs.NewRunner(a.log).Run(cmd.Context(), cmds, cfg.SuppressOutput); err != nil {
				return err
			}
			fmt.Fprintln(a.out, params.WorkDir)
			return nil
		},
	}
	gmxFlags(cmd)
	cmd.Flags().Bool("suppress-output", true, "do not log the stdout of successful commands")
	return cmd
}
