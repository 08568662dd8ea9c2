package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thavlik/foldy-prep/pdbindex"
	"github.com/thavlik/foldy-prep/rcsb"
)

// Config is the resolved configuration for every command.
type Config struct {
	IndexDir         string
	IndexFile        string
	IndexRedis       string
	IndexRedisPrefix string
	PDBDir           string
	WorkDir          string
	BaseURL          string
	Gmx              string
	MdpDir           string
	ForceField       string
	Box              string
	SuppressOutput   bool
	Verbose          bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("index.dir", "data")
	v.SetDefault("index.file", pdbindex.DefaultFilename)
	v.SetDefault("index.redis", "")
	v.SetDefault("index.redis_prefix", pdbindex.DefaultRedisPrefix)
	v.SetDefault("pdb.dir", filepath.Join("data", "pdb"))
	v.SetDefault("work.dir", filepath.Join("data", "work"))
	v.SetDefault("rcsb.base_url", rcsb.DefaultBaseURL)
	v.SetDefault("gmx.binary", "gmx")
	v.SetDefault("gmx.mdp_dir", "mdp")
	v.SetDefault("forcefield", "amber99sb")
	v.SetDefault("box", "cubic")
	v.SetDefault("suppress_output", true)
	v.SetDefault("verbose", false)
}

// bindFlags maps each flag onto its nested config key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, flag := range map[string]string{
		"index.dir":          "index-dir",
		"index.file":         "index-file",
		"index.redis":        "index-redis",
		"index.redis_prefix": "index-redis-prefix",
		"pdb.dir":            "pdb-dir",
		"work.dir":           "work-dir",
		"rcsb.base_url":      "rcsb-url",
		"gmx.binary":         "gmx",
		"gmx.mdp_dir":        "mdp-dir",
		"forcefield":         "forcefield",
		"box":                "box",
		"suppress_output":    "suppress-output",
		"verbose":            "verbose",
	} {
		if f := flags.Lookup(flag); f != nil {
			v.BindPFlag(key, f)
		}
	}
}

// readConfig loads cfgFile, or $HOME/.foldy.yaml when it is empty.
// A missing default config file is not an error.
func readConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("foldy")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return v.ReadInConfig()
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetConfigName(".foldy")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func loadConfig(v *viper.Viper) *Config {
	return &Config{
		IndexDir:         v.GetString("index.dir"),
		IndexFile:        v.GetString("index.file"),
		IndexRedis:       v.GetString("index.redis"),
		IndexRedisPrefix: v.GetString("index.redis_prefix"),
		PDBDir:           v.GetString("pdb.dir"),
		WorkDir:          v.GetString("work.dir"),
		BaseURL:          v.GetString("rcsb.base_url"),
		Gmx:              v.GetString("gmx.binary"),
		MdpDir:           v.GetString("gmx.mdp_dir"),
		ForceField:       v.GetString("forcefield"),
		Box:              v.GetString("box"),
		SuppressOutput:   v.GetBool("suppress_output"),
		Verbose:          v.GetBool("verbose"),
	}
}
