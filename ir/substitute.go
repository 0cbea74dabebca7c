// Copyright 2025 go-veclower Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

type substitution struct {
	Memo
	name string
	repl Expr
}

func (s *substitution) MutateExpr(e Expr) Expr {
	if c, ok := s.CachedExpr(e); ok {
		return c
	}
	var out Expr
	switch n := e.(type) {
	case *Var:
		if n.Name == s.name {
			out = s.repl
		} else {
			out = e
		}
	case *Let:
		if n.Name == s.name {
			// The let rebinds the name; only its value is open.
			if v := s.MutateExpr(n.Value); v != n.Value {
				out = &Let{Name: n.Name, Value: v, Body: n.Body}
			} else {
				out = e
			}
		} else {
			out = MutateExprChildren(s, e)
		}
	default:
		out = MutateExprChildren(s, e)
	}
	return s.StoreExpr(e, out)
}

func (s *substitution) MutateStmt(st Stmt) Stmt {
	if c, ok := s.CachedStmt(st); ok {
		return c
	}
	var out Stmt
	switch n := st.(type) {
	case *LetStmt:
		if n.Name == s.name {
			if v := s.MutateExpr(n.Value); v != n.Value {
				out = &LetStmt{Name: n.Name, Value: v, Body: n.Body}
			} else {
				out = st
			}
		} else {
			out = MutateStmtChildren(s, st)
		}
	case *For:
		if n.Name == s.name {
			min, extent := s.MutateExpr(n.Min), s.MutateExpr(n.Extent)
			if min != n.Min || extent != n.Extent {
				out = &For{Name: n.Name, Min: min, Extent: extent, Body: n.Body}
			} else {
				out = st
			}
		} else {
			out = MutateStmtChildren(s, st)
		}
	default:
		out = MutateStmtChildren(s, st)
	}
	return s.StoreStmt(st, out)
}

// Substitute replaces free occurrences of the named variable in e with
// repl. Bindings that shadow the name are left alone.
func Substitute(name string, repl Expr, e Expr) Expr {
	s := &substitution{name: name, repl: repl}
	return s.MutateExpr(e)
}

// SubstituteStmt replaces free occurrences of the named variable in st
// with repl.
func SubstituteStmt(name string, repl Expr, st Stmt) Stmt {
	s := &substitution{name: name, repl: repl}
	return s.MutateStmt(st)
}

type letInliner struct {
	Memo
}

func (li *letInliner) MutateExpr(e Expr) Expr {
	if c, ok := li.CachedExpr(e); ok {
		return c
	}
	var out Expr
	if let, ok := e.(*Let); ok {
		value := li.MutateExpr(let.Value)
		body := li.MutateExpr(let.Body)
		out = Substitute(let.Name, value, body)
	} else {
		out = MutateExprChildren(li, e)
	}
	return li.StoreExpr(e, out)
}

func (li *letInliner) MutateStmt(s Stmt) Stmt {
	if c, ok := li.CachedStmt(s); ok {
		return c
	}
	return li.StoreStmt(s, MutateStmtChildren(li, s))
}

// SubstituteInAllLets inlines every Let expression in s, leaving
// statement-level bindings in place.
func SubstituteInAllLets(s Stmt) Stmt {
	li := &letInliner{}
	return li.MutateStmt(s)
}

// SubstituteInAllLetsExpr inlines every Let expression in e.
func SubstituteInAllLetsExpr(e Expr) Expr {
	li := &letInliner{}
	return li.MutateExpr(e)
}

type varFinder struct {
	Memo
	name  string
	found bool
}

func (f *varFinder) MutateExpr(e Expr) Expr {
	if f.found {
		return e
	}
	if _, ok := f.CachedExpr(e); ok {
		return e
	}
	switch n := e.(type) {
	case *Var:
		if n.Name == f.name {
			f.found = true
		}
	case *Let:
		if n.Name == f.name {
			f.MutateExpr(n.Value)
		} else {
			MutateExprChildren(f, e)
		}
	default:
		MutateExprChildren(f, e)
	}
	return f.StoreExpr(e, e)
}

func (f *varFinder) MutateStmt(s Stmt) Stmt {
	if f.found {
		return s
	}
	if _, ok := f.CachedStmt(s); ok {
		return s
	}
	switch n := s.(type) {
	case *LetStmt:
		if n.Name == f.name {
			f.MutateExpr(n.Value)
		} else {
			MutateStmtChildren(f, s)
		}
	case *For:
		if n.Name == f.name {
			f.MutateExpr(n.Min)
			f.MutateExpr(n.Extent)
		} else {
			MutateStmtChildren(f, s)
		}
	default:
		MutateStmtChildren(f, s)
	}
	return f.StoreStmt(s, s)
}

// UsesVar reports whether the named variable occurs free in e.
func UsesVar(e Expr, name string) bool {
	f := &varFinder{name: name}
	f.MutateExpr(e)
	return f.found
}

// UsesVarStmt reports whether the named variable occurs free in s.
func UsesVarStmt(s Stmt, name string) bool {
	f := &varFinder{name: name}
	f.MutateStmt(s)
	return f.found
}
