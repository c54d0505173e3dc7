package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// OsExitCheckAnalyzer is a custom analyzer that detects calls to os.Exit in the main function.
var OsExitCheckAnalyzer = &analysis.Analyzer{
	Name: "osexitcheck",
	Doc:  "check for os.Exit() calls in the main function of package main",
	Run:  runOsExit,
}

// runOsExit implements OsExitCheckAnalyzer.
func runOsExit(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		// go test generates a main package in the build cache.
		if strings.Contains(pass.Fset.Position(file.Package).Filename, ".cache") {
			continue
		}

		for _, decl := range file.Decls {
			f, ok := decl.(*ast.FuncDecl)
			if !ok || f.Recv != nil || f.Name.Name != "main" {
				continue
			}

			ast.Inspect(f, func(node ast.Node) bool {
				if callExpr, ok := node.(*ast.CallExpr); ok {
					if selExpr, ok := callExpr.Fun.(*ast.SelectorExpr); ok {
						if ident, ok := selExpr.X.(*ast.Ident); ok && ident.Name == "os" && selExpr.Sel.Name == "Exit" {
							pass.Reportf(callExpr.Pos(), "osexitcheck os.Exit cannot be called in main function of main package")
						}
					}
				}
				return true
			})
		}
	}
	return nil, nil
}
