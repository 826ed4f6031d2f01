package main

import (
	"fmt"
	"os"

	"github.com/crewlog/crewlog/internal/buildinfo"
	"github.com/crewlog/crewlog/internal/config"
)

const usage = `crewlog - crew roster import and duty tracking

Usage:
  crewlog import <file>...   parse roster files, merge into the log, print a report
  crewlog watch              run the refresh daemon (cron schedule, rest ticker)
  crewlog report [-from -to] period totals for a date window
  crewlog trips [-active]    trips with duty figures and anomalies
  crewlog rest               current rest status
  crewlog collisions [-resolve <id>]
                             review reconciliation ambiguities
  crewlog imports [-n N]     recent refresh audit rows
  crewlog version            build information
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if os.Args[1] == "version" {
		fmt.Printf("crewlog %s (%s, built %s)\n", buildinfo.Version, buildinfo.GitCommit, buildinfo.BuildTime)
		return
	}

	envCfg, err := config.LoadEnvConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	var cmdErr error
	switch os.Args[1] {
	case "import":
		cmdErr = cmdImport(envCfg, os.Args[2:])
	case "watch":
		cmdErr = cmdWatch(envCfg)
	case "report":
		cmdErr = cmdReport(envCfg, os.Args[2:])
	case "trips":
		cmdErr = cmdTrips(envCfg, os.Args[2:])
	case "rest":
		cmdErr = cmdRest(envCfg)
	case "collisions":
		cmdErr = cmdCollisions(envCfg, os.Args[2:])
	case "imports":
		cmdErr = cmdImports(envCfg, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", cmdErr)
		os.Exit(1)
	}
}
