package xcargs

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Options is the flat input surface for a single xcodebuild run. An
// empty string means the input was not supplied. Boolean and flag inputs
// stay raw strings so an unset input remains distinguishable from
// "false"; they are parsed during validation and composition.
type Options struct {
	// Target selectors; exactly one must be set.
	Workspace  string `yaml:"workspace,omitempty"`
	Project    string `yaml:"project,omitempty"`
	SPMPackage string `yaml:"spm-package,omitempty"`

	// Scheme is required when building a workspace or a Swift package.
	Scheme string `yaml:"scheme,omitempty"`

	Target              string `yaml:"target,omitempty"`
	Destination         string `yaml:"destination,omitempty"`
	Configuration       string `yaml:"configuration,omitempty"`
	SDK                 string `yaml:"sdk,omitempty"`
	Arch                string `yaml:"arch,omitempty"`
	Jobs                string `yaml:"jobs,omitempty"`
	ResultBundleVersion string `yaml:"result-bundle-version,omitempty"`
	TestPlan            string `yaml:"test-plan,omitempty"`
	CodeSignIdentity    string `yaml:"code-sign-identity,omitempty"`

	XCConfig                 string `yaml:"xcconfig,omitempty"`
	ResultBundlePath         string `yaml:"result-bundle-path,omitempty"`
	ArchivePath              string `yaml:"archive-path,omitempty"`
	ClonedSourcePackagesPath string `yaml:"cloned-source-packages-path,omitempty"`
	DerivedDataPath          string `yaml:"derived-data-path,omitempty"`
	XCRoot                   string `yaml:"xcroot,omitempty"`
	XCTestRun                string `yaml:"xctestrun,omitempty"`

	// Multi-line lists; every non-blank line becomes its own argument.
	OnlyTesting string `yaml:"only-testing,omitempty"`
	SkipTesting string `yaml:"skip-testing,omitempty"`

	EnableCodeCoverage               string `yaml:"enable-code-coverage,omitempty"`
	ParallelTestingEnabled           string `yaml:"parallel-testing-enabled,omitempty"`
	EnableAddressSanitizer           string `yaml:"enable-address-sanitizer,omitempty"`
	EnableThreadSanitizer            string `yaml:"enable-thread-sanitizer,omitempty"`
	EnableUndefinedBehaviorSanitizer string `yaml:"enable-undefined-behavior-sanitizer,omitempty"`
	CodeSigningRequired              string `yaml:"code-signing-required,omitempty"`

	ParallelizeTargets                  string `yaml:"parallelize-targets,omitempty"`
	Quiet                               string `yaml:"quiet,omitempty"`
	HideShellScriptEnvironment          string `yaml:"hide-shell-script-environment,omitempty"`
	SkipUnavailableActions              string `yaml:"skip-unavailable-actions,omitempty"`
	AllowProvisioningUpdates            string `yaml:"allow-provisioning-updates,omitempty"`
	AllowProvisioningDeviceRegistration string `yaml:"allow-provisioning-device-registration,omitempty"`

	// BuildSettings is appended verbatim, split on whitespace.
	BuildSettings string `yaml:"build-settings,omitempty"`

	// Action is required and appended last, split on whitespace.
	Action string `yaml:"action,omitempty"`
}

// booleanInputs lists every input that must parse as a boolean when set.
func (o *Options) booleanInputs() map[string]string {
	return map[string]string{
		"enable-code-coverage":                   o.EnableCodeCoverage,
		"parallel-testing-enabled":               o.ParallelTestingEnabled,
		"enable-address-sanitizer":               o.EnableAddressSanitizer,
		"enable-thread-sanitizer":                o.EnableThreadSanitizer,
		"enable-undefined-behavior-sanitizer":    o.EnableUndefinedBehaviorSanitizer,
		"code-signing-required":                  o.CodeSigningRequired,
		"parallelize-targets":                    o.ParallelizeTargets,
		"quiet":                                  o.Quiet,
		"hide-shell-script-environment":          o.HideShellScriptEnvironment,
		"skip-unavailable-actions":               o.SkipUnavailableActions,
		"allow-provisioning-updates":             o.AllowProvisioningUpdates,
		"allow-provisioning-device-registration": o.AllowProvisioningDeviceRegistration,
	}
}

// Validate checks the configuration before anything is spawned. Every
// violation is terminal for the run.
func (o *Options) Validate() error {
	selectors := 0
	for _, sel := range []string{o.Workspace, o.Project, o.SPMPackage} {
		if sel != "" {
			selectors++
		}
	}

	if selectors != 1 {
		return eris.Errorf("Exactly one of workspace, project and spm-package must be set, got %d", selectors)
	}

	if o.Scheme == "" && (o.Workspace != "" || o.SPMPackage != "") {
		return eris.New("A scheme is required when building a workspace or a Swift package")
	}

	if o.Action == "" {
		return eris.New("The action input is required")
	}

	for name, raw := range o.booleanInputs() {
		if raw == "" {
			continue
		}

		if _, err := strconv.ParseBool(raw); err != nil {
			return eris.Wrapf(err, "The %s input must be a boolean", name)
		}
	}

	return nil
}

// Arguments composes the ordered xcodebuild argument list. Validate must
// have passed; a selector that is a Swift package contributes no
// argument since xcodebuild runs inside the package directory instead.
func (o *Options) Arguments() ([]Argument, error) {
	bld := builder{}

	bld.path("-workspace", o.Workspace)
	bld.path("-project", o.Project)
	bld.plain("-scheme", o.Scheme)
	bld.plain("-target", o.Target)
	bld.plain("-destination", o.Destination)
	bld.plain("-configuration", o.Configuration)
	bld.plain("-sdk", o.SDK)
	bld.plain("-arch", o.Arch)
	bld.path("-xcconfig", o.XCConfig)
	bld.plain("-jobs", o.Jobs)
	bld.path("-resultBundlePath", o.ResultBundlePath)
	bld.plain("-resultBundleVersion", o.ResultBundleVersion)
	bld.path("-archivePath", o.ArchivePath)
	bld.path("-xcroot", o.XCRoot)
	bld.path("-xctestrun", o.XCTestRun)
	bld.plain("-testPlan", o.TestPlan)
	bld.list("-only-testing", o.OnlyTesting)
	bld.list("-skip-testing", o.SkipTesting)
	bld.path("-clonedSourcePackagesDirPath", o.ClonedSourcePackagesPath)
	bld.path("-derivedDataPath", o.DerivedDataPath)
	bld.boolean("-enableCodeCoverage", o.EnableCodeCoverage)
	bld.boolean("-parallel-testing-enabled", o.ParallelTestingEnabled)
	bld.boolean("-enableAddressSanitizer", o.EnableAddressSanitizer)
	bld.boolean("-enableThreadSanitizer", o.EnableThreadSanitizer)
	bld.boolean("-enableUndefinedBehaviorSanitizer", o.EnableUndefinedBehaviorSanitizer)
	bld.flag("-parallelizeTargets", o.ParallelizeTargets)
	bld.flag("-quiet", o.Quiet)
	bld.flag("-hideShellScriptEnvironment", o.HideShellScriptEnvironment)
	bld.flag("-skipUnavailableActions", o.SkipUnavailableActions)
	bld.flag("-allowProvisioningUpdates", o.AllowProvisioningUpdates)
	bld.flag("-allowProvisioningDeviceRegistration", o.AllowProvisioningDeviceRegistration)

	// xcodebuild has no dashed equivalents for these, they are passed as
	// NAME=VALUE build settings.
	if o.CodeSignIdentity != "" {
		bld.bare("CODE_SIGN_IDENTITY=" + o.CodeSignIdentity)
	}
	bld.booleanSetting("CODE_SIGNING_REQUIRED", o.CodeSigningRequired)

	bld.raw(o.BuildSettings)
	bld.raw(o.Action)

	return bld.args, bld.err
}

// builder accumulates arguments in order and remembers the first error.
type builder struct {
	args []Argument
	err  error
}

func (b *builder) bare(name string) {
	if b.err != nil {
		return
	}

	b.args = append(b.args, NewBare(name))
}

func (b *builder) plain(name, raw string) {
	if b.err != nil || raw == "" {
		return
	}

	b.args = append(b.args, NewArgument(name, raw))
}

func (b *builder) path(name, raw string) {
	if b.err != nil || raw == "" {
		return
	}

	arg, err := NewPathArgument(name, raw)
	if err != nil {
		b.err = err
		return
	}

	b.args = append(b.args, arg)
}

// list emits one argument per non-blank line, trimmed; blank lines are
// silently skipped.
func (b *builder) list(name, raw string) {
	if b.err != nil || raw == "" {
		return
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		b.args = append(b.args, NewArgument(name, line))
	}
}

// boolean emits the argument only if the raw input was supplied; the
// value is rendered as the canonical YES/NO token xcodebuild expects.
func (b *builder) boolean(name, raw string) {
	if b.err != nil || raw == "" {
		return
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		b.err = eris.Wrapf(err, "The value for %s must be a boolean", name)
		return
	}

	b.args = append(b.args, NewArgument(name, yesNo(value)))
}

// booleanSetting emits a NAME=YES or NAME=NO build-setting token.
func (b *builder) booleanSetting(name, raw string) {
	if b.err != nil || raw == "" {
		return
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		b.err = eris.Wrapf(err, "The value for %s must be a boolean", name)
		return
	}

	b.args = append(b.args, NewBare(name+"="+yesNo(value)))
}

// flag emits a bare name if the raw input was supplied and parses as
// boolean true.
func (b *builder) flag(name, raw string) {
	if b.err != nil || raw == "" {
		return
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		b.err = eris.Wrapf(err, "The value for %s must be a boolean", name)
		return
	}

	if value {
		b.args = append(b.args, NewBare(name))
	}
}

// raw appends whitespace-separated tokens verbatim.
func (b *builder) raw(tokens string) {
	if b.err != nil {
		return
	}

	for _, token := range strings.Fields(tokens) {
		b.args = append(b.args, NewBare(token))
	}
}

func yesNo(value bool) string {
	if value {
		return "YES"
	}

	return "NO"
}
