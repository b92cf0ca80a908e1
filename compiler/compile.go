package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xiaobogaga/jackc/compiler/internal"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] path(s)",
	Short: "compile jack files into vm files.",
	Long: `Compile every given jack file, and every jack file directly inside a given
directory, into a vm file of the same name. Each file is compiled on its own; a
file with errors produces no output.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := internal.Options{
			OutDir: getString(cmd, "out-dir"),
			Jobs:   getInt(cmd, "jobs"),
			Verify: getFlag(cmd, "verify"),
		}
		if getFlag(cmd, "stdout") {
			opts.Stdout = os.Stdout
		}
		err := internal.CompilePaths(args, opts)
		if err != nil {
			log.Debugf("compilation failed: %v", err)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("out-dir", "o", "", "write vm files into this directory instead of beside the sources")
	compileCmd.Flags().IntP("jobs", "j", 0, "compile at most this many files at once (0 means one per cpu)")
	compileCmd.Flags().Bool("verify", false, "check the generated vm code parses before writing it")
	compileCmd.Flags().Bool("stdout", false, "print vm code instead of writing files")
}
