package sampletest

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadToolchainFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "toolchain.yaml", `
interpreterPath: /usr/bin/python3
compilerPath: /opt/jdk-21/bin/javac
runtimePath: /opt/jdk-21/bin/java
runtimeExtraArgs: -Xss64m
installRootEnvs:
  - MY_JDK_HOME
`, 0644)
	tc, err := LoadToolchainFile(p)
	if err != nil {
		t.Fatalf("LoadToolchainFile error: %v", err)
	}
	if tc.InterpreterPath != "/usr/bin/python3" {
		t.Errorf("InterpreterPath = %q", tc.InterpreterPath)
	}
	if tc.CompilerPath != "/opt/jdk-21/bin/javac" {
		t.Errorf("CompilerPath = %q", tc.CompilerPath)
	}
	if tc.RuntimeExtraArgs != "-Xss64m" {
		t.Errorf("RuntimeExtraArgs = %q", tc.RuntimeExtraArgs)
	}
	if !reflect.DeepEqual(tc.InstallRootEnvs, []string{"MY_JDK_HOME"}) {
		t.Errorf("InstallRootEnvs = %v", tc.InstallRootEnvs)
	}
}

func TestLoadToolchainFile_Missing(t *testing.T) {
	tc, err := LoadToolchainFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must be tolerated, got %v", err)
	}
	if !reflect.DeepEqual(tc, ToolchainConfig{}) {
		t.Errorf("expected zero config, got %+v", tc)
	}
}
