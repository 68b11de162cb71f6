// Command ordmapctl applies a JSONC script of record operations to an
// ordered map and prints the result in key order.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/llxisdsh/ordmap/internal/script"
)

type applyFlags struct {
	maxEntries int
	asJSON     bool
	strict     bool
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "ordmapctl",
		Short:         "drive an ordered record map from a script",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(log)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	root.AddCommand(newApplyCmd(fs))
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func newApplyCmd(fs afero.Fs) *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "apply a script and print the resulting map",
		Long: `
  Loads initial entries from FILE, runs its ops in order and prints the
  map one entry per line (key, name, tags), or as JSON with --json.
  Failed ops are reported on stderr with their result code.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, fs, args[0], f)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (f *applyFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&f.maxEntries, "max-entries", 0, "cap on map entries, overrides the script (0 = script value)")
	flags.BoolVar(&f.asJSON, "json", false, "print the map as JSON")
	flags.BoolVar(&f.strict, "strict", false, "exit with an error if any op fails")
}

func runApply(cmd *cobra.Command, fs afero.Fs, path string, f applyFlags) error {
	s, err := script.Load(fs, path)
	if err != nil {
		return err
	}
	m, outcomes, err := script.NewRunner(zap.L(), f.maxEntries).Apply(s)
	if err != nil {
		return err
	}
	defer m.Destroy()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), o.String())
		}
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		b, err := m.MarshalJSON()
		if err != nil {
			return errors.Wrap(err, "encode map")
		}
		fmt.Fprintln(out, string(b))
	} else if err := script.WriteListing(out, m); err != nil {
		return err
	}
	if f.strict && failed > 0 {
		return errors.Newf("%d of %d ops failed", failed, len(outcomes))
	}
	return nil
}

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ordmapctl:", err)
		os.Exit(1)
	}
}
