package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	modulePath  = "ballot"
	serviceRoot = "contexts/governance/election-service"
	servicePath = modulePath + "/" + serviceRoot
)

// layerRule lists, per top-level service directory, the in-module imports it
// may use. allowThirdParty is false where only the standard library may be
// imported from outside the module.
type layerRule struct {
	allowed         []string
	forbidden       []string
	allowThirdParty bool
}

var rules = map[string]layerRule{
	"domain": {
		allowed: []string{servicePath + "/domain"},
	},
	"application": {
		allowed: []string{servicePath + "/application", servicePath + "/domain", servicePath + "/ports"},
	},
	"transport": {
		forbidden: []string{
			servicePath + "/adapters",
			servicePath + "/application",
			modulePath + "/internal",
			modulePath + "/cmd",
		},
		allowThirdParty: true,
	},
}

func main() {
	var failures []string
	err := filepath.WalkDir(serviceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, _ := filepath.Rel(serviceRoot, path)
		layer := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
		rule, ok := rules[layer]
		if !ok {
			return nil
		}
		failures = append(failures, checkFile(path, layer, rule)...)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "walk %s: %v\n", serviceRoot, err)
		os.Exit(2)
	}
	if len(failures) == 0 {
		fmt.Println("boundary checks passed")
		return
	}
	fmt.Println("boundary violations found:")
	for _, failure := range failures {
		fmt.Println("- " + failure)
	}
	os.Exit(1)
}

func checkFile(path string, layer string, rule layerRule) []string {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", path, err)}
	}

	var failures []string
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		if reason := violates(importPath, layer, rule); reason != "" {
			line := fset.Position(imp.Pos()).Line
			failures = append(failures, fmt.Sprintf("%s:%d imports %q (%s)", filepath.ToSlash(path), line, importPath, reason))
		}
	}
	return failures
}

func violates(importPath string, layer string, rule layerRule) string {
	for _, prefix := range rule.forbidden {
		if hasPrefix(importPath, prefix) {
			return layer + " must not import " + strings.TrimPrefix(prefix, modulePath+"/")
		}
	}
	if !hasPrefix(importPath, modulePath) {
		if rule.allowThirdParty || isStdlib(importPath) {
			return ""
		}
		return layer + " may only import the standard library"
	}
	if len(rule.allowed) == 0 {
		return ""
	}
	for _, prefix := range rule.allowed {
		if hasPrefix(importPath, prefix) {
			return ""
		}
	}
	return layer + " import is outside its allowlist"
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// isStdlib treats paths whose first element has no dot as standard library.
func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
