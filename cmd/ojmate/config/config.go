package config

import (
	"time"

	"github.com/koding/multiconfig"
)

// Config defines the ojmate daemon configuration.
type Config struct {
	// server config
	HTTPAddr      string `flagUsage:"specifies the http binding address" default:":5080"`
	MonitorAddr   string `flagUsage:"specifies the metrics / pprof binding address" default:":5081"`
	EnableMetrics bool   `flagUsage:"enable prometheus metrics endpoint"`
	EnableDebug   bool   `flagUsage:"enable debug log level and pprof endpoint"`

	// judge client
	JudgeBaseURL       string        `flagUsage:"base url of the online judge deployment"`
	JudgeTimeout       time.Duration `flagUsage:"per-request timeout for the judge client" default:"10s"`
	JudgeSkipTLSVerify bool          `flagUsage:"skip judge TLS certificate verification"`

	// sample-test toolchain
	PythonPath           string        `flagUsage:"explicit path of the python interpreter"`
	JavacPath            string        `flagUsage:"explicit path of the java compiler"`
	JavaPath             string        `flagUsage:"explicit path of the java runtime"`
	InterpreterExtraArgs string        `flagUsage:"extra interpreter arguments (shell quoting rules)"`
	JavacExtraArgs       string        `flagUsage:"extra javac arguments (shell quoting rules)"`
	JavaExtraArgs        string        `flagUsage:"extra java arguments (shell quoting rules)"`
	ToolchainConf        string        `flagUsage:"specifies toolchain configuration file" default:"toolchain.yaml"`
	RunTimeout           time.Duration `flagUsage:"wall-clock limit for each spawned process (0 disables)"`

	// logger config
	Release bool `flagUsage:"release level of logs"`
	Silent  bool `flagUsage:"do not print logs"`

	// show version and exit
	Version bool `flagUsage:"show version and exit"`
}

// Load loads config from flag & environment variables
func (c *Config) Load() error {
	cl := multiconfig.MultiLoader(
		&multiconfig.TagLoader{},
		&multiconfig.EnvironmentLoader{
			Prefix:    "OJMATE",
			CamelCase: true,
		},
		&multiconfig.FlagLoader{
			CamelCase: true,
			EnvPrefix: "OJMATE",
		},
	)
	return cl.Load(c)
}
