package cmd

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func makeTempFile(tb testing.TB, content []byte) string {
	tb.Helper()
	file, err := os.CreateTemp(tb.TempDir(), "sgxtool_test_*.bin")
	if err != nil {
		tb.Fatal(err)
	}
	defer file.Close()
	if content != nil {
		if _, err := file.Write(content); err != nil {
			tb.Fatal(err)
		}
	}
	return file.Name()
}

// resetFlags restores every flag of cmd and its subcommands to its default
// so commands can be executed repeatedly in one test binary.
func resetFlags(tb testing.TB, cmd *cobra.Command) {
	tb.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(nil); err != nil {
				tb.Fatal(err)
			}
		} else if err := f.Value.Set(f.DefValue); err != nil {
			tb.Fatalf("resetting --%s: %v", f.Name, err)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.LocalNonPersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(tb, sub)
	}
}

// runCmd executes sgxtool with args, ignoring any config file in the
// user's config directory.
func runCmd(tb testing.TB, args ...string) error {
	tb.Helper()
	tb.Setenv("XDG_CONFIG_HOME", tb.TempDir())
	resetFlags(tb, RootCmd)
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

// runCmdOutput executes sgxtool with --output pointing at a temporary file
// and returns what the command wrote.
func runCmdOutput(tb testing.TB, args ...string) ([]byte, error) {
	tb.Helper()
	out := makeTempFile(tb, nil)
	if err := runCmd(tb, append(args, "--output", out)...); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		tb.Fatal(err)
	}
	return data, nil
}
