package main

import (
	"flag"
)

// AppFlags holds the parsed command line flags.
type AppFlags struct {
	GlobalConfigFile string
	Mode             string
	ImportFile       string
	History          int
}

// ParseFlags parses command line flags, resolving short aliases.
func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	modeFlag := flag.String("mode", "", "Mode to run the tool: onetime or automated (overrides config file if set)")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	importFile := flag.String("import", "", "Path to a YAML/JSON file with domains and channels to load into the store before running")
	importFileAlias := flag.String("i", "", "Alias for -import")

	history := flag.Int("history", 0, "Print the N most recent passes and exit")
	historyAlias := flag.Int("H", 0, "Alias for -history")

	flag.Parse()

	return AppFlags{
		GlobalConfigFile: firstNonEmpty(*globalConfigFile, *globalConfigFileAlias),
		Mode:             firstNonEmpty(*modeFlag, *modeFlagAlias),
		ImportFile:       firstNonEmpty(*importFile, *importFileAlias),
		History:          firstPositive(*history, *historyAlias),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
