package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
)

// exit codes
const (
	exitClean    = 0
	exitFindings = 1
	exitFailure  = 2
)

func main() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		glog.Flush()
		os.Exit(exitFailure)
	}
	glog.Flush()
	os.Exit(exitCode)
}
