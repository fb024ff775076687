// Package flagx holds small helpers for sharing os.Args between independent
// flag sets: every config stage parses only the flags it owns.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns a slice of command-line arguments that only contains
// the allowed flags (and their values) specified in allowedFlags.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	// never nil, so callers can pass it straight to FlagSet.Parse
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFiles extracts the optional configuration file locations from args
// (usually os.Args[1:]):
//
//	-c / -config  path to a JSON config file
//	-env          path to a dotenv file
//
// Missing flags yield empty strings. Other arguments are ignored so the
// caller's own flag set is not disturbed.
func ConfigFiles(args []string) (jsonPath, envPath string) {
	filtered := FilterArgs(args, []string{"-c", "-config", "-env"})

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.StringVar(&jsonPath, "config", "", "Path to config file")
	fs.StringVar(&jsonPath, "c", "", "Path to config file (short)")
	fs.StringVar(&envPath, "env", "", "Path to .env file")
	_ = fs.Parse(filtered)

	return jsonPath, envPath
}
