package sampletest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestRun_Validation(t *testing.T) {
	r := NewRunner(Config{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
	}{
		{"empty path", Request{Language: LangPython, Input: "1\n"}},
		{"missing file", Request{Language: LangPython, SourcePath: "/no/such/file.py", Input: "1\n"}},
		{"empty input", Request{Language: LangPython, SourcePath: writeFile(t, t.TempDir(), "a.py", "print(1)", 0644)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := r.Run(ctx, c.req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestRun_UnsupportedLanguage(t *testing.T) {
	src := writeFile(t, t.TempDir(), "main.go", "package main", 0644)
	r := NewRunner(Config{})
	_, err := r.Run(context.Background(), Request{Language: "go", SourcePath: src, Input: "1\n"})
	var langErr *UnsupportedLanguageError
	if !errors.As(err, &langErr) {
		t.Fatalf("expected UnsupportedLanguageError, got %v", err)
	}
	if !strings.Contains(err.Error(), "go") {
		t.Errorf("error must name the language: %q", err.Error())
	}
}

func TestRun_InterpretedEcho(t *testing.T) {
	skipOnWindows(t)
	// a shell script stands in for the interpreted source: the resolver's
	// explicit interpreter override points at sh
	src := writeFile(t, t.TempDir(), "echo.py", "read x\necho \"$x\"\n", 0644)
	r := NewRunner(Config{Toolchain: ToolchainConfig{InterpreterPath: "sh"}})

	expected := "5"
	out, err := r.Run(context.Background(), Request{
		Language:   LangPython,
		SourcePath: src,
		Input:      "5\n",
		Expected:   &expected,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Stdout != "5\n" {
		t.Errorf("stdout = %q, want %q", out.Stdout, "5\n")
	}
	if out.Matched == nil || !*out.Matched {
		t.Errorf("expected matched verdict, got %v", out.Matched)
	}
	if out.ExitCode == nil || *out.ExitCode != 0 {
		t.Errorf("unexpected exit code: %v", out.ExitCode)
	}
}

// fakeJavaToolchain writes stub javac/java executables into a temp dir.
// The stubs record their argument vectors so tests can observe which
// process launches happened and where the workspace was.
func fakeJavaToolchain(t *testing.T, javacScript, javaScript string) (ToolchainConfig, string, string) {
	t.Helper()
	dir := t.TempDir()
	javacRecord := filepath.Join(dir, "javac.args")
	javaRecord := filepath.Join(dir, "java.args")
	javac := writeFile(t, dir, "javac",
		"#!/bin/sh\nprintf '%s\\n' \"$@\" > "+javacRecord+"\n"+javacScript, 0755)
	java := writeFile(t, dir, "java",
		"#!/bin/sh\nprintf '%s\\n' \"$@\" > "+javaRecord+"\n"+javaScript, 0755)
	return ToolchainConfig{CompilerPath: javac, RuntimePath: java}, javacRecord, javaRecord
}

func recordedArgs(t *testing.T, record string) []string {
	t.Helper()
	data, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("read %s: %v", record, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestRun_CompiledPipeline(t *testing.T) {
	skipOnWindows(t)
	tc, javacRecord, javaRecord := fakeJavaToolchain(t, "exit 0", "echo hello")
	src := writeFile(t, t.TempDir(), "Main.java", `package com.example;
public class Main {
    public static void main(String[] args) { System.out.println("hello"); }
}`, 0644)

	r := NewRunner(Config{Toolchain: tc})
	out, err := r.Run(context.Background(), Request{
		Language:   LangJava,
		SourcePath: src,
		Input:      "1\n",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Stdout != "hello\n" {
		t.Errorf("stdout = %q", out.Stdout)
	}
	if out.Matched != nil {
		t.Errorf("expected nil verdict without expectation, got %v", *out.Matched)
	}

	javacArgs := recordedArgs(t, javacRecord)
	ws := argAfter(javacArgs, "-d")
	if ws == "" {
		t.Fatalf("compiler did not receive -d: %v", javacArgs)
	}
	javaArgs := recordedArgs(t, javaRecord)
	if cp := argAfter(javaArgs, "-classpath"); cp != ws {
		t.Errorf("runtime classpath %q != workspace %q", cp, ws)
	}
	if target := javaArgs[len(javaArgs)-1]; target != "com.example.Main" {
		t.Errorf("run target = %q, want com.example.Main", target)
	}
	if _, err := os.Stat(ws); !os.IsNotExist(err) {
		t.Errorf("workspace %s still exists after run", ws)
	}
}

func TestRun_RelativeSourcePath(t *testing.T) {
	skipOnWindows(t)
	tc, javacRecord, _ := fakeJavaToolchain(t, "exit 0", "echo hi")
	dir := t.TempDir()
	writeFile(t, dir, "Main.java", `public class Main {
    public static void main(String[] args) { System.out.println("hi"); }
}`, 0644)
	t.Chdir(dir)

	// the compiler runs from the workspace, so the source path it
	// receives must not depend on the caller's working directory
	r := NewRunner(Config{Toolchain: tc})
	out, err := r.Run(context.Background(), Request{
		Language:   LangJava,
		SourcePath: "Main.java",
		Input:      "1\n",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Stdout != "hi\n" {
		t.Errorf("stdout = %q", out.Stdout)
	}

	javacArgs := recordedArgs(t, javacRecord)
	srcArg := javacArgs[len(javacArgs)-1]
	if !filepath.IsAbs(srcArg) {
		t.Errorf("compiler received relative source path %q", srcArg)
	}
	if filepath.Base(srcArg) != "Main.java" {
		t.Errorf("compiler source argument = %q", srcArg)
	}
}

func TestRun_CompileFailure(t *testing.T) {
	skipOnWindows(t)
	diag := "Main.java:3: error: ';' expected"
	tc, javacRecord, javaRecord := fakeJavaToolchain(t,
		"echo \""+diag+"\" 1>&2\nexit 1", "echo never")
	src := writeFile(t, t.TempDir(), "Main.java", `public class Main {
    public static void main(String[] args) {}
}`, 0644)

	r := NewRunner(Config{Toolchain: tc})
	_, err := r.Run(context.Background(), Request{
		Language:   LangJava,
		SourcePath: src,
		Input:      "1\n",
	})
	var cErr *CompileError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if got := strings.TrimRight(cErr.Error(), "\n"); got != diag {
		t.Errorf("compile message = %q, want %q", got, diag)
	}

	// run step skipped, workspace removed
	if _, statErr := os.Stat(javaRecord); !os.IsNotExist(statErr) {
		t.Error("runtime was launched despite compile failure")
	}
	ws := argAfter(recordedArgs(t, javacRecord), "-d")
	if _, statErr := os.Stat(ws); !os.IsNotExist(statErr) {
		t.Errorf("workspace %s left behind after compile failure", ws)
	}
}

func TestRun_EntryPointErrorBeforeCompile(t *testing.T) {
	skipOnWindows(t)
	tc, javacRecord, _ := fakeJavaToolchain(t, "exit 0", "echo hi")
	src := writeFile(t, t.TempDir(), "Main.java",
		`class Main { public static void main(String[] args) {} }`, 0644)

	r := NewRunner(Config{Toolchain: tc})
	_, err := r.Run(context.Background(), Request{
		Language:   LangJava,
		SourcePath: src,
		Input:      "1\n",
	})
	var epErr *EntryPointError
	if !errors.As(err, &epErr) {
		t.Fatalf("expected EntryPointError, got %v", err)
	}
	if _, statErr := os.Stat(javacRecord); !os.IsNotExist(statErr) {
		t.Error("compiler was launched despite entry point failure")
	}
}
