// cmd/awyc/main.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// awyc compiles user-authored route segment CSV data into the X-Plane
// earth_awy.dat format, resolving each endpoint's region code against the
// earth_fix.dat and earth_nav.dat reference datasets. If the output file
// already exists it is merged into rather than replaced: its existing
// records survive unless both of their endpoints fall in excluded regions.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/xpnav/awyc/awy"
	"github.com/xpnav/awyc/log"
)

// The ten Chinese FIR prefixes; segments lying entirely inside them come
// from the authored CSV instead of the stock data, so the stock ones are
// dropped by default.
const defaultExcluded = "ZB,ZG,ZY,ZS,ZW,ZJ,ZP,ZL,ZH,ZU"

func envDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func main() {
	// Optional env defaults; flags always win.
	_ = godotenv.Load(".env")

	var (
		csvPath   = flag.String("csv", envDefault("AWYC_CSV", ""), "path to route segment CSV (RTE_SEG.csv)")
		fixPath   = flag.String("fix", envDefault("AWYC_FIX", ""), "path to earth_fix.dat (optionally .zst)")
		navPath   = flag.String("nav", envDefault("AWYC_NAV", ""), "path to earth_nav.dat (optionally .zst)")
		outPath   = flag.String("out", envDefault("AWYC_OUT", ""), "path to the earth_awy.dat to create or merge into")
		exclude   = flag.String("exclude", envDefault("AWYC_EXCLUDE", defaultExcluded), "comma-separated region codes to exclude")
		overwrite = flag.Bool("overwrite", false, "replace an existing output file instead of merging into it")
		cycle     = flag.String("cycle", "", "AIRAC cycle for the output version line (default: current)")
		logLevel  = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
		logDir    = flag.String("logdir", "", "log file directory")
	)
	flag.Parse()

	if *csvPath == "" || *fixPath == "" || *navPath == "" || *outPath == "" {
		fmt.Fprintf(os.Stderr, "usage: awyc -csv <file> -fix <file> -nav <file> -out <file> [flags]\nwhere [flags] may be:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	lg := log.New(*logLevel, *logDir)

	cfg := awy.MakeConfig(*csvPath, *fixPath, *navPath, *outPath)
	cfg.Overwrite = *overwrite
	cfg.Cycle = *cycle
	for _, r := range strings.Split(*exclude, ",") {
		if r = strings.TrimSpace(r); r != "" {
			cfg.ExcludedRegions = append(cfg.ExcludedRegions, r)
		}
	}

	stats, err := awy.Compile(cfg, lg)
	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "awyc: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d fix and %d navaid reference entries\n", stats.FixEntries, stats.NavaidEntries)
	fmt.Printf("Processed %d rows: %d resolved, %d unresolved, %d unknown type, %d malformed\n",
		stats.Rows, stats.Resolved, stats.Unresolved, stats.UnknownType, stats.Malformed)
	if stats.ExistingKept > 0 || stats.ExistingFiltered > 0 {
		fmt.Printf("Merged existing file: kept %d, filtered %d, unparseable %d\n",
			stats.ExistingKept, stats.ExistingFiltered, stats.ExistingMalformed)
	}
	fmt.Printf("Wrote %d records to %s (%d filtered, %d duplicates removed)\n",
		stats.Written, *outPath, stats.Filtered, stats.Duplicated)
}
