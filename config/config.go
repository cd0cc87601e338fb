// Package config is the environment variable driven configuration of evdb,
// with an optional .env file in the profile directory.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"go-simpler.org/env"

	"evdb.lol/config/keyvalue"
)

// C is the configuration for the event database and the command that loads it.
type C struct {
	AppName         string        `env:"APP_NAME" default:"evdb"`
	Profile         string        `env:"PROFILE" usage:"directory a .env file is read from (default is APP_NAME under the XDG config dir)"`
	LogLevel        string        `env:"LOG_LEVEL" default:"info" usage:"debug level: fatal error warn info debug trace"`
	KeepOldVersions bool          `env:"KEEP_OLD_VERSIONS" default:"false" usage:"retain superseded versions of replaceable events"`
	ModelKeepWarm   time.Duration `env:"MODEL_KEEP_WARM" default:"60s" usage:"how long a model without subscribers stays cached"`
	TagIndexSize    int           `env:"TAG_INDEX_SIZE" default:"1000" usage:"number of tag indexes kept materialized"`
	SlowTagScan     time.Duration `env:"SLOW_TAG_SCAN" default:"100ms" usage:"log a warning when building a tag index takes longer than this"`
	PruneLimit      int           `env:"PRUNE_LIMIT" default:"0" usage:"number of least recently used events to prune after loading, 0 disables"`
	Pprof           bool          `env:"PPROF" default:"false" usage:"write a cpu profile into the current directory"`
}

// New loads the configuration from the environment, then from the .env file in
// the profile directory if there is one. Variables set in the environment take
// precedence over the file.
func New() (cfg *C, err error) {
	cfg = &C{}
	if err = env.Load(cfg, nil); chk.T(err) {
		return
	}
	if cfg.Profile == "" {
		cfg.Profile = filepath.Join(xdg.ConfigHome, cfg.AppName)
	}
	envPath := filepath.Join(cfg.Profile, ".env")
	if _, err = os.Stat(envPath); err != nil {
		// no file is not an error, everything has a default
		err = nil
		return
	}
	var e Env
	if e, err = ReadEnv(envPath); chk.E(err) {
		return
	}
	profile := cfg.Profile
	if err = env.Load(cfg, &env.Options{Source: e}); chk.E(err) {
		return
	}
	cfg.Profile = profile
	return
}

// Env is a set of KEY=value pairs read from a file, used as an env.Source that
// falls back to it for anything not set in the process environment.
type Env map[string]string

// ReadEnv reads a file of KEY=value lines. Blank lines and lines starting with
// # are skipped, as is a leading "export ".
func ReadEnv(path string) (e Env, err error) {
	var b []byte
	if b, err = os.ReadFile(path); chk.E(err) {
		return
	}
	e = make(Env)
	for n, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		split := strings.SplitN(line, "=", 2)
		if len(split) != 2 {
			err = errorf.E("%s:%d: expected KEY=value, got %q", path, n+1, line)
			return
		}
		e[strings.TrimSpace(split[0])] = strings.Trim(strings.TrimSpace(split[1]), `"'`)
	}
	return
}

// LookupEnv implements env.Source.
func (e Env) LookupEnv(key string) (value string, ok bool) {
	if value, ok = os.LookupEnv(key); ok {
		return
	}
	value, ok = e[key]
	return
}

// HelpRequested returns true if any of the common types of help invocation are
// found as the first command line parameter/flag.
func HelpRequested() (help bool) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "help", "-h", "--h", "-help", "--help", "?":
			help = true
		}
	}
	return
}

// GetEnv returns true if the first command line parameter is "env".
func GetEnv() (requested bool) {
	return len(os.Args) > 1 && strings.ToLower(os.Args[1]) == "env"
}

// PrintEnv writes the current configuration as KEY=value lines, suitable for
// saving as the .env file.
func PrintEnv(cfg *C, printer io.Writer) { keyvalue.PrintEnv(*cfg, printer) }

// PrintHelp outputs a help text listing the configuration options and default
// values to a provided io.Writer (usually os.Stderr or os.Stdout).
func PrintHelp(cfg *C, printer io.Writer) {
	_, _ = fmt.Fprintf(printer,
		"Environment variables that configure %s:\n\n", cfg.AppName)
	env.Usage(cfg, printer, nil)
	_, _ = fmt.Fprintf(printer,
		"\nCLI parameter 'help' also prints this information\n"+
			"\na .env file in the PROFILE directory is loaded if it exists, the\n"+
			"environment overrides it\n\n"+
			"use the parameter 'env' to print out the current configuration\n\n"+
			"save the current configuration using\n\n\t%s env>%s/.env\n\n",
		os.Args[0], cfg.Profile)
}
