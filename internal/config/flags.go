package config

import (
	"flag"
	"os"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path to the vault database (default from Config)
//	-r string   trusted extension runtime id
//
// Arguments are filtered through flagx.FilterArgs so flags owned by other
// components (like -c/-config) do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "path to the vault database")
	fs.StringVar(&cfg.RuntimeID, "r", cfg.RuntimeID, "trusted extension runtime id")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
