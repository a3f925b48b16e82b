// Package cmd implements the CLI: it reads the declarative build
// inputs, composes the xcodebuild command line and runs it.
package cmd

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sergeysova/xcodebuild-action/pkg/config"
	"github.com/sergeysova/xcodebuild-action/pkg/runner"
	"github.com/sergeysova/xcodebuild-action/pkg/xcargs"
)

var rootCmd = &cobra.Command{
	Use:   "xcodebuild-action",
	Short: "Runs xcodebuild with arguments composed from declarative inputs",
	Long: `This command translates a flat set of named build inputs into an
xcodebuild command line, optionally pipes the build output through
xcpretty and reports a single success/failure outcome. The composed
command is printed (and exported as step outputs on CI) in two variants:
with the argument values exactly as configured and with paths resolved
to their absolute form.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(NewConsoleWriter())
		ctx := runner.WithLogger(cmd.Context(), &logger)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err = cfg.Validate(); err != nil {
			return err
		}

		xcArgs, err := cfg.Arguments()
		if err != nil {
			return err
		}

		display := displayPipeline(cfg, xcArgs)
		unresolved := xcargs.Line(display, xcargs.RenderOptions{UseOriginal: true, EscapeValue: true})
		resolved := xcargs.Line(display, xcargs.RenderOptions{EscapeValue: true})

		printTask("Composed command")
		if err = publishOutputs(unresolved, resolved); err != nil {
			return err
		}

		dryRun := cfg.WantsDryRun()
		if dryRun && !debugEnabled() {
			logger.Warn().Msg("dry-run is only honored in debug mode, running the build")
			dryRun = false
		}

		if dryRun {
			return echoCommand(&logger, resolved)
		}

		if runtime.GOOS != "darwin" {
			return eris.Errorf("xcodebuild requires macOS, refusing to run on %s", runtime.GOOS)
		}

		invocation := runner.Invocation{
			Primary: runner.Command{
				Path: "xcodebuild",
				Args: xcargs.RenderAll(xcArgs, xcargs.RenderOptions{}),
			},
		}

		if cfg.SPMPackage != "" {
			// Swift packages carry no selector argument; xcodebuild runs
			// inside the package directory instead.
			dir, err := filepath.Abs(cfg.SPMPackage)
			if err != nil {
				return eris.Wrapf(err, "Failed to resolve package path %s", cfg.SPMPackage)
			}

			invocation.Dir = dir
		}

		if cfg.UsesFormatter() {
			colorArg := "--no-color"
			if cfg.ColoredFormatter() {
				colorArg = "--color"
			}

			invocation.Formatter = &runner.Command{Path: "xcpretty", Args: []string{colorArg}}
		}

		code, err := invocation.Run(ctx)
		if err != nil {
			return err
		}

		if code != 0 {
			return eris.Errorf("The build failed with exit code %d", code)
		}

		logger.Info().Msg("Build succeeded")
		return nil
	},
}

// displayPipeline reuses the argument model as pseudo-arguments to
// render the entire shell pipeline for humans. The result is never
// executed.
func displayPipeline(cfg config.Config, xcArgs []xcargs.Argument) []xcargs.Argument {
	display := make([]xcargs.Argument, 0, len(xcArgs)+4)
	display = append(display, xcargs.NewBare("xcodebuild"))
	display = append(display, xcArgs...)

	if cfg.UsesFormatter() {
		display = append(display, xcargs.NewBare("|"), xcargs.NewBare("xcpretty"))
		if cfg.ColoredFormatter() {
			display = append(display, xcargs.NewBare("--color"))
		} else {
			display = append(display, xcargs.NewBare("--no-color"))
		}
	}

	return display
}

// loadConfig reads the config file if one was given and overlays every
// flag that was explicitly set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config

	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return cfg, err
	}

	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return cfg, err
		}
	}

	for name, dst := range inputBindings(&cfg) {
		if !cmd.Flags().Changed(name) {
			continue
		}

		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return cfg, err
		}

		*dst = value
	}

	return cfg, nil
}

// inputBindings maps every input flag to its config field. Flag names
// double as the YAML keys of the config file.
func inputBindings(cfg *config.Config) map[string]*string {
	return map[string]*string{
		"workspace":                              &cfg.Workspace,
		"project":                                &cfg.Project,
		"spm-package":                            &cfg.SPMPackage,
		"scheme":                                 &cfg.Scheme,
		"target":                                 &cfg.Target,
		"destination":                            &cfg.Destination,
		"configuration":                          &cfg.Configuration,
		"sdk":                                    &cfg.SDK,
		"arch":                                   &cfg.Arch,
		"jobs":                                   &cfg.Jobs,
		"result-bundle-version":                  &cfg.ResultBundleVersion,
		"test-plan":                              &cfg.TestPlan,
		"code-sign-identity":                     &cfg.CodeSignIdentity,
		"xcconfig":                               &cfg.XCConfig,
		"result-bundle-path":                     &cfg.ResultBundlePath,
		"archive-path":                           &cfg.ArchivePath,
		"cloned-source-packages-path":            &cfg.ClonedSourcePackagesPath,
		"derived-data-path":                      &cfg.DerivedDataPath,
		"xcroot":                                 &cfg.XCRoot,
		"xctestrun":                              &cfg.XCTestRun,
		"only-testing":                           &cfg.OnlyTesting,
		"skip-testing":                           &cfg.SkipTesting,
		"enable-code-coverage":                   &cfg.EnableCodeCoverage,
		"parallel-testing-enabled":               &cfg.ParallelTestingEnabled,
		"enable-address-sanitizer":               &cfg.EnableAddressSanitizer,
		"enable-thread-sanitizer":                &cfg.EnableThreadSanitizer,
		"enable-undefined-behavior-sanitizer":    &cfg.EnableUndefinedBehaviorSanitizer,
		"code-signing-required":                  &cfg.CodeSigningRequired,
		"parallelize-targets":                    &cfg.ParallelizeTargets,
		"quiet":                                  &cfg.Quiet,
		"hide-shell-script-environment":          &cfg.HideShellScriptEnvironment,
		"skip-unavailable-actions":               &cfg.SkipUnavailableActions,
		"allow-provisioning-updates":             &cfg.AllowProvisioningUpdates,
		"allow-provisioning-device-registration": &cfg.AllowProvisioningDeviceRegistration,
		"build-settings":                         &cfg.BuildSettings,
		"action":                                 &cfg.Action,
		"use-xcpretty":                           &cfg.UseXCPretty,
		"xcpretty-colored-output":                &cfg.XCPrettyColoredOutput,
		"dry-run":                                &cfg.DryRun,
	}
}

// debugEnabled reports whether debug mode is active, either through the
// tool's own environment variable or through the CI runner's.
func debugEnabled() bool {
	return os.Getenv("XCODEBUILD_ACTION_DEBUG") != "" || os.Getenv("RUNNER_DEBUG") == "1"
}

func init() {
	flags := rootCmd.Flags()

	flags.String("config", "", "path to a YAML file holding the same inputs as the flags below")

	flags.String("workspace", "", "path to the .xcworkspace to build")
	flags.String("project", "", "path to the .xcodeproj to build")
	flags.String("spm-package", "", "path to the Swift package to build")
	flags.String("scheme", "", "scheme to build; required for workspaces and Swift packages")
	flags.String("target", "", "target to build")
	flags.String("destination", "", "destination specifier")
	flags.String("configuration", "", "build configuration")
	flags.String("sdk", "", "SDK to build against")
	flags.String("arch", "", "architecture to build")
	flags.String("jobs", "", "number of concurrent build jobs")
	flags.String("result-bundle-version", "", "version of the result bundle format")
	flags.String("test-plan", "", "test plan to run")
	flags.String("code-sign-identity", "", "code signing identity, passed as a build setting")
	flags.String("xcconfig", "", "path to an xcconfig file")
	flags.String("result-bundle-path", "", "path to write the result bundle to")
	flags.String("archive-path", "", "path to write the archive to")
	flags.String("cloned-source-packages-path", "", "directory for cloned source packages")
	flags.String("derived-data-path", "", "derived data directory")
	flags.String("xcroot", "", "path to an .xcroot file")
	flags.String("xctestrun", "", "path to an .xctestrun file")
	flags.String("only-testing", "", "test identifiers to run, one per line")
	flags.String("skip-testing", "", "test identifiers to skip, one per line")
	flags.String("enable-code-coverage", "", "whether to collect code coverage (YES/NO)")
	flags.String("parallel-testing-enabled", "", "whether tests run in parallel (YES/NO)")
	flags.String("enable-address-sanitizer", "", "whether to build with ASan (YES/NO)")
	flags.String("enable-thread-sanitizer", "", "whether to build with TSan (YES/NO)")
	flags.String("enable-undefined-behavior-sanitizer", "", "whether to build with UBSan (YES/NO)")
	flags.String("code-signing-required", "", "whether code signing is required, passed as a build setting")
	flags.String("parallelize-targets", "", "build independent targets in parallel")
	flags.String("quiet", "", "only print warnings and errors")
	flags.String("hide-shell-script-environment", "", "hide shell script environment variables in the log")
	flags.String("skip-unavailable-actions", "", "skip actions that cannot be performed")
	flags.String("allow-provisioning-updates", "", "allow xcodebuild to update provisioning")
	flags.String("allow-provisioning-device-registration", "", "allow xcodebuild to register devices")
	flags.String("build-settings", "", "additional build settings, appended verbatim")
	flags.String("action", "", "xcodebuild action(s) to perform, e.g. build or clean test")
	flags.String("use-xcpretty", "", "whether to pipe the output through xcpretty (required)")
	flags.String("xcpretty-colored-output", "", "whether xcpretty colors its output; required with use-xcpretty")
	flags.String("dry-run", "", "only print the composed command; honored in debug mode only")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
