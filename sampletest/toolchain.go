package sampletest

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/shlex"
)

const (
	toolInterpreter = "python"
	toolCompiler    = "javac"
	toolRuntime     = "java"
)

// defaultInstallRootEnvs are the installation-root environment variables
// consulted for the compiled toolchain, in order.
var defaultInstallRootEnvs = []string{"JAVA_HOME", "JDK_HOME"}

// ToolchainConfig enumerates everything the resolver consults. It never
// reads ambient process state itself: environment access goes through
// LookupEnv so the resolver stays testable.
type ToolchainConfig struct {
	// Explicit per-tool overrides. Always win when non-empty.
	InterpreterPath string `config:"interpreterPath"`
	CompilerPath    string `config:"compilerPath"`
	RuntimePath     string `config:"runtimePath"`

	// Extra argument strings appended to the compile / run command lines,
	// split with shell-like quoting rules.
	InterpreterExtraArgs string `config:"interpreterExtraArgs"`
	CompilerExtraArgs    string `config:"compilerExtraArgs"`
	RuntimeExtraArgs     string `config:"runtimeExtraArgs"`

	// InstallRootEnvs names environment variables whose value is treated
	// as a toolchain installation root containing bin/<tool>. Defaults to
	// JAVA_HOME then JDK_HOME.
	InstallRootEnvs []string `config:"installRootEnvs"`

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool) `config:",ignore"`
}

// Toolchain resolves which executables to invoke. Resolution never
// fails: a candidate that cannot actually be started surfaces later as a
// LaunchError from the execution engine.
type Toolchain struct {
	conf ToolchainConfig
}

// NewToolchain fills in config defaults and returns a resolver.
func NewToolchain(conf ToolchainConfig) *Toolchain {
	if conf.LookupEnv == nil {
		conf.LookupEnv = os.LookupEnv
	}
	if conf.InstallRootEnvs == nil {
		conf.InstallRootEnvs = defaultInstallRootEnvs
	}
	return &Toolchain{conf: conf}
}

// Interpreter resolves the interpreted-language executable. Installation
// roots only apply to the compiled toolchain.
func (t *Toolchain) Interpreter() string {
	if t.conf.InterpreterPath != "" {
		return t.conf.InterpreterPath
	}
	return toolInterpreter + exeSuffix()
}

// Compiler resolves the compiled-language compiler executable.
func (t *Toolchain) Compiler() string {
	return t.resolve(t.conf.CompilerPath, toolCompiler)
}

// Runtime resolves the compiled-language runtime executable.
func (t *Toolchain) Runtime() string {
	return t.resolve(t.conf.RuntimePath, toolRuntime)
}

// InterpreterArgs returns the extra interpreter arguments from configuration.
func (t *Toolchain) InterpreterArgs() ([]string, error) {
	return splitArgs(t.conf.InterpreterExtraArgs)
}

// CompilerArgs returns the extra compiler arguments from configuration.
func (t *Toolchain) CompilerArgs() ([]string, error) {
	return splitArgs(t.conf.CompilerExtraArgs)
}

// RuntimeArgs returns the extra runtime arguments from configuration.
func (t *Toolchain) RuntimeArgs() ([]string, error) {
	return splitArgs(t.conf.RuntimeExtraArgs)
}

// resolve picks the first usable candidate: explicit override, then
// bin/<tool> under each configured installation root, then the bare tool
// name (with the platform executable suffix when applicable) for PATH
// lookup.
func (t *Toolchain) resolve(override, tool string) string {
	if override != "" {
		return override
	}
	for _, name := range t.conf.InstallRootEnvs {
		if root, ok := t.conf.LookupEnv(name); ok && root != "" {
			return filepath.Join(root, "bin", tool+exeSuffix())
		}
	}
	return tool + exeSuffix()
}

func splitArgs(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	return shlex.Split(s)
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
