// Command husk finds package-manifest dependencies that are declared but
// never referenced from source, and optionally removes them.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"husk/internal/analyzer"
	"husk/internal/coordinator"
	"husk/internal/huskerr"
	"husk/internal/husklog"
	"husk/internal/manifest"
	"husk/internal/resolve"
	"husk/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "husk [paths...]",
	Short:         "Find unused package-manifest dependencies",
	Long:          "husk scans one or more project trees for manifests, resolves each declared dependency to its expected source identifier, and reports which ones are never referenced.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runScan,
	SilenceErrors: true,
}

var (
	flagColor          string
	flagQuiet          bool
	flagWithMetadata   bool
	flagMetadataCmd    string
	flagSkipTargetDir  bool
	flagNoIgnore       bool
	flagFix            bool
	flagJobs           int
	flagOuterJobs      int
	flagTimeoutSeconds int
)

// invokedAsCargoSubcommand reports whether this process was launched by
// cargo's subcommand dispatch rather than directly. Per spec.md:151,
// that's a "CARGO-like env var is set but a package-level env var is
// not" check, not argv inspection — cargo always sets CARGO for any
// subcommand it runs, while a husk-package-level env var is something
// only husk itself would set, so the combination disambiguates `cargo
// husk ...` from a direct `husk husk ...` invocation where "husk" is
// simply a legitimate positional path argument.
func invokedAsCargoSubcommand() bool {
	return os.Getenv("CARGO") != "" && os.Getenv("HUSK") == ""
}

// stripCargoSubcommandAlias drops a leading "husk" argument when this
// binary was invoked as `cargo husk ...`: cargo's subcommand dispatch
// runs `cargo-husk husk ...`, re-passing the subcommand name as argv[1]
// on top of the binary name it already picked by. Invoked directly
// (`husk ...`), including with a literal "husk" path argument, this is a
// no-op — that's exactly the case the env-var check exists to tell
// apart from the cargo-dispatch form.
func stripCargoSubcommandAlias(args []string) []string {
	if len(args) > 1 && args[1] == "husk" && invokedAsCargoSubcommand() {
		out := make([]string, 0, len(args)-1)
		out = append(out, args[0])
		out = append(out, args[2:]...)
		return out
	}
	return args
}

func main() {
	os.Args = stripCargoSubcommandAlias(os.Args)

	rootCmd.Version = version.VersionString()
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress non-essential log output")
	rootCmd.Flags().BoolVar(&flagWithMetadata, "with-metadata", false, "resolve dependency identities via an external metadata tool instead of the manifest alone")
	rootCmd.Flags().StringVar(&flagMetadataCmd, "metadata-command", "cargo", "metadata tool invoked when --with-metadata is set")
	rootCmd.Flags().BoolVar(&flagSkipTargetDir, "skip-target-dir", true, "don't descend into directories literally named \"target\" while discovering manifests")
	rootCmd.Flags().BoolVar(&flagNoIgnore, "no-ignore", false, "don't honor .gitignore/.ignore files while discovering manifests")
	rootCmd.Flags().BoolVar(&flagFix, "fix", false, "remove every reported unused dependency from its manifest")
	rootCmd.Flags().IntVar(&flagJobs, "jobs", 0, "parallel searches per package (0 = a sane default)")
	rootCmd.Flags().IntVar(&flagOuterJobs, "package-jobs", 0, "packages analyzed in parallel (0 = a sane default)")
	rootCmd.Flags().IntVar(&flagTimeoutSeconds, "timeout", 0, "overall run timeout in seconds (0 = none)")

	if err := rootCmd.Execute(); err != nil {
		var argErr *huskerr.ArgumentError
		if asArgumentError(err, &argErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func asArgumentError(err error, target **huskerr.ArgumentError) bool {
	for err != nil {
		if ae, ok := err.(*huskerr.ArgumentError); ok {
			*target = ae
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func shouldColor() bool {
	switch flagColor {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	husklog.Init(flagQuiet)

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	mode := resolve.ManifestOnly
	if flagWithMetadata {
		mode = resolve.MetadataAssisted
	}

	ctx := cmd.Context()
	var cancel context.CancelFunc
	if flagTimeoutSeconds > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(flagTimeoutSeconds)*time.Second)
		defer cancel()
	}

	opts := coordinator.Options{
		Discover: manifest.DiscoverOptions{
			SkipTargetDir: flagSkipTargetDir,
			NoIgnore:      flagNoIgnore,
		},
		Analyze: analyzer.Options{
			Mode:        mode,
			MetadataCmd: flagMetadataCmd,
			Jobs:        flagJobs,
		},
		OuterJobs: flagOuterJobs,
	}

	result := coordinator.Run(ctx, roots, opts)

	color := shouldColor()
	printReport(cmd.OutOrStdout(), result, color)

	if flagFix {
		applyFixes(cmd.OutOrStdout(), result)
	}

	for _, err := range result.Errors {
		husklog.L().Warnw("run completed with errors", "error", err)
	}

	// The run exits non-zero for either an unused finding or any error
	// the coordinator recorded (walk, parse, or analysis; spec §7). With
	// --fix the unused finding no longer counts, whether or not every fix
	// applied (a failed fix is logged); a recorded error still counts.
	if len(result.Errors) > 0 {
		return errNonZeroExit
	}
	if result.AnyUnused && !flagFix {
		return errNonZeroExit
	}
	return nil
}

// errNonZeroExit is returned by runScan when the report (or the walk
// error log) already told the user everything relevant; main maps it to
// exit code 1 without cobra printing a redundant error line.
var errNonZeroExit = fmt.Errorf("run completed with unused dependencies or walk errors")
