package sampletest

import (
	"os"

	"github.com/elastic/go-ucfg/yaml"
)

// LoadToolchainFile reads toolchain overrides from a YAML file. A
// missing file is tolerated and yields a zero config.
func LoadToolchainFile(name string) (ToolchainConfig, error) {
	var tc ToolchainConfig
	conf, err := yaml.NewConfigWithFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return tc, nil
		}
		return tc, err
	}
	if err := conf.Unpack(&tc); err != nil {
		return tc, err
	}
	return tc, nil
}

// Merge fills the zero-valued fields of c from other and returns the
// result. Explicit values in c always win.
func (c ToolchainConfig) Merge(other ToolchainConfig) ToolchainConfig {
	if c.InterpreterPath == "" {
		c.InterpreterPath = other.InterpreterPath
	}
	if c.CompilerPath == "" {
		c.CompilerPath = other.CompilerPath
	}
	if c.RuntimePath == "" {
		c.RuntimePath = other.RuntimePath
	}
	if c.InterpreterExtraArgs == "" {
		c.InterpreterExtraArgs = other.InterpreterExtraArgs
	}
	if c.CompilerExtraArgs == "" {
		c.CompilerExtraArgs = other.CompilerExtraArgs
	}
	if c.RuntimeExtraArgs == "" {
		c.RuntimeExtraArgs = other.RuntimeExtraArgs
	}
	if c.InstallRootEnvs == nil {
		c.InstallRootEnvs = other.InstallRootEnvs
	}
	if c.LookupEnv == nil {
		c.LookupEnv = other.LookupEnv
	}
	return c
}
