package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// NoCtxRequestAnalyzer reports outgoing HTTP requests that cannot be cancelled.
// Test files are skipped.
var NoCtxRequestAnalyzer = &analysis.Analyzer{
	Name:     "noctxrequest",
	Doc:      "check that outgoing HTTP requests carry a context.Context",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      runNoCtxRequest,
}

// noCtxFuncs maps the functions of net/http without a context to their replacement.
var noCtxFuncs = map[string]string{
	"NewRequest": "http.NewRequestWithContext",
	"Get":        "http.NewRequestWithContext and Client.Do",
	"Head":       "http.NewRequestWithContext and Client.Do",
	"Post":       "http.NewRequestWithContext and Client.Do",
	"PostForm":   "http.NewRequestWithContext and Client.Do",
}

func runNoCtxRequest(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if strings.HasSuffix(pass.Fset.Position(call.Pos()).Filename, "_test.go") {
			return
		}

		fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
		if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "net/http" {
			return
		}
		fix, ok := noCtxFuncs[fn.Name()]
		if !ok {
			return
		}

		if sig, _ := fn.Type().(*types.Signature); sig != nil && sig.Recv() != nil {
			if !isHTTPClient(sig.Recv().Type()) {
				return
			}
			pass.Reportf(call.Pos(), "noctxrequest (*http.Client).%s sends a request without a context, use %s", fn.Name(), fix)
			return
		}
		pass.Reportf(call.Pos(), "noctxrequest http.%s builds a request without a context, use %s", fn.Name(), fix)
	})
	return nil, nil
}

func isHTTPClient(t types.Type) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "net/http" && obj.Name() == "Client"
}
