package sampletest

import "regexp"

// EntryPoint identifies the class a compiled-language runtime must be
// told to start from. Derived once per run from the source text.
type EntryPoint struct {
	Class   string
	Package string
}

// Qualified returns the fully qualified run target.
func (e EntryPoint) Qualified() string {
	if e.Package == "" {
		return e.Class
	}
	return e.Package + "." + e.Class
}

// Lightweight structural pattern recognition over the source text. Good
// enough for well-formed, idiomatic submissions; this is entry-point
// discovery, not semantic analysis.
var (
	packageClauseRe = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*)\s*;`)
	publicClassRe   = regexp.MustCompile(`\bpublic\s+(?:final\s+|abstract\s+|strictfp\s+)*class\s+([A-Za-z_$][\w$]*)`)
	mainMethodRe    = regexp.MustCompile(`\b(?:public\s+static|static\s+public)\s+void\s+main\s*\(\s*(?:final\s+)?String\s*(?:\[\s*\]\s*[\w$]+|\.\.\.\s*[\w$]+|[\w$]+\s*\[\s*\])\s*\)`)
)

// detectEntryPoint scans src for a package clause, a public top-level
// class and a runnable main method shape.
func detectEntryPoint(src string) (EntryPoint, error) {
	var ep EntryPoint
	cls := publicClassRe.FindStringSubmatch(src)
	if cls == nil {
		return ep, &EntryPointError{Reason: "cannot identify a public entry class"}
	}
	if !mainMethodRe.MatchString(src) {
		return ep, &EntryPointError{Reason: "no runnable entry method found"}
	}
	ep.Class = cls[1]
	if pkg := packageClauseRe.FindStringSubmatch(src); pkg != nil {
		ep.Package = pkg[1]
	}
	return ep, nil
}
