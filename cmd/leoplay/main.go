package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7532"
	pidFile    = "leoplayd.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "levels":
		err = cmdLevels(os.Args[2:])
	case "level":
		err = cmdLevel(os.Args[2:])
	case "stage":
		err = cmdStage(os.Args[2:])
	case "media":
		err = cmdMedia(os.Args[2:])
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("leoplay %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`LeoPlay - Exercise Player for Early Readers

Usage:
  leoplay <command> [arguments]

Content Commands:
  validate [path]      Validate the level catalog
  levels [path]        List levels in the catalog
  level <id>           Show level details
  stage <id> <n>       Show a resolved stage
  media <id>           List exercises missing audio or image assets

Daemon Commands:
  start                Start the LeoPlay daemon
  stop                 Stop the LeoPlay daemon
  status               Show daemon status
  logs                 View daemon logs

Other:
  help                 Show this help message
  version              Show version information

Examples:
  leoplay validate ./content      # Check levels before shipping them
  leoplay stage animales 2        # Preview the second stage of a level
  leoplay start                   # Start daemon`)
}
