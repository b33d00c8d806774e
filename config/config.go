// Package config parses phantomd's command-line configuration, in the
// teacher's cmd/<tool>/config.go idiom: a struct tagged for
// github.com/jessevdk/go-flags, validated by ParseArgs after parsing.
package config

import (
	"strings"

	"github.com/daglabs/phantomdag/dagconfig"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const defaultListenAddr = ":8080"

// Config holds phantomd's parsed command-line configuration.
type Config struct {
	ListenAddr string `short:"l" long:"listen" description:"HTTP/WebSocket listen address" default:":8080"`
	Network    string `short:"n" long:"network" description:"Parameter set to run with (mainnet, simnet)" default:"mainnet"`
	K          uint32 `short:"k" long:"k" description:"PHANTOM k-cluster parameter (overrides the network default when > 0)"`
	DebugLevel string `long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical} or subsystem=level,... pairs" default:"info"`
	LogDir     string `long:"logdir" description:"Directory to write rotating log files to" default:"."`

	Params dagconfig.Params
}

// Parse reads os.Args, validates cross-field constraints in the teacher's
// parseConfig style, and returns the resolved Config together with its
// selected dagconfig.Params.
func Parse() (*Config, error) {
	return ParseArgs(nil)
}

// ParseArgs parses args (nil meaning os.Args[1:]) the same way Parse does;
// tests use this to avoid depending on the process's real argv.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		return nil, err
	}

	params, ok := dagconfig.ByName(strings.ToLower(cfg.Network))
	if !ok {
		return nil, errors.Errorf("unknown network %q, expected one of mainnet, simnet", cfg.Network)
	}
	if cfg.K > 0 {
		params.K = cfg.K
	}
	if params.K < 1 {
		return nil, errors.New("k must be >= 1")
	}
	if cfg.ListenAddr == "" {
		return nil, errors.New("listen address must not be empty")
	}

	cfg.DebugLevel = strings.ToLower(cfg.DebugLevel)
	cfg.Params = params

	return cfg, nil
}
