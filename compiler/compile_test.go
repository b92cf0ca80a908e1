package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs rootCmd with args and then puts every flag back to its default,
// so one case never sees the flags of another.
func execute(args ...string) error {
	defer resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeMain(t *testing.T, dir string) {
	source := filepath.Join(dir, "Main.jack")
	require.Nil(t, os.WriteFile(source, []byte("class Main { function void main() { return; } }"), 0666))
}

func TestCompileCommand(t *testing.T) {
	dir, out := t.TempDir(), t.TempDir()
	writeMain(t, dir)

	require.Nil(t, execute("compile", "--verify", "-j", "1", "-o", out, dir))
	code, err := os.ReadFile(filepath.Join(out, "Main.vm"))
	require.Nil(t, err)
	assert.Equal(t, "function Main.main 0\npush constant 0\nreturn\n", string(code))
}

func TestCompileCommand_FlagsDoNotCarryOver(t *testing.T) {
	first, second, out := t.TempDir(), t.TempDir(), t.TempDir()
	writeMain(t, first)
	writeMain(t, second)

	require.Nil(t, execute("compile", "-o", out, first))
	require.Nil(t, execute("compile", second))
	assert.FileExists(t, filepath.Join(second, "Main.vm"))
	verify, err := compileCmd.Flags().GetBool("verify")
	require.Nil(t, err)
	assert.False(t, verify)
	outDir, err := compileCmd.Flags().GetString("out-dir")
	require.Nil(t, err)
	assert.Empty(t, outDir)
}

func TestCompileCommand_ReportsFailure(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "Bad.jack"), []byte("class Bad {"), 0666))
	assert.NotNil(t, execute("compile", dir))
	_, err := os.Stat(filepath.Join(dir, "Bad.vm"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompileCommand_RequiresPath(t *testing.T) {
	assert.NotNil(t, execute("compile"))
}
