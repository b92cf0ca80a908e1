package main

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set with -ldflags when building a release.
var Version string

var rootCmd = &cobra.Command{
	Use:   "jackc",
	Short: "A compiler for the jack language.",
	Long:  "A compiler translating jack classes into vm code for the hack virtual machine.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(getFlag(cmd, "verbose"))
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !getFlag(cmd, "version") {
			_ = cmd.Help()
			return
		}
		fmt.Print("jackc ")
		if Version != "" {
			fmt.Printf("%s", Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Printf("%s", info.Main.Version)
		} else {
			fmt.Printf("(unknown version)")
		}
		fmt.Println()
	},
}

// Execute runs the command named on the command line and exits non zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging logs to stderr, with colours only when stderr is a terminal.
func configureLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		DisableColors:    !term.IsTerminal(int(os.Stderr.Fd())),
		DisableTimestamp: true,
	})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Get an expected flag, or exit if it is not defined.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

func init() {
	rootCmd.Flags().Bool("version", false, "report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}
