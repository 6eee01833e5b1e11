package ast

import (
	"typeforge/internal/span"
	"typeforge/internal/token"
)

// NodeToMap converts a syntax tree node to a map suitable for JSON
// serialization. Every node produces a "kind" field naming its Go type.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return m("Program", n.Span, "body", stmtSlice(n.Body))

	// ---- Expressions ----
	case *Ident:
		return m("Ident", n.Span, "name", n.Name)
	case *NumberLit:
		return m("NumberLit", n.Span, "value", n.Value, "isBig", n.IsBig)
	case *StringLit:
		return m("StringLit", n.Span, "value", n.Value)
	case *BoolLit:
		return m("BoolLit", n.Span, "value", n.Value)
	case *NullLit:
		return m("NullLit", n.Span)
	case *UndefinedLit:
		return m("UndefinedLit", n.Span)
	case *ThisExpr:
		return m("ThisExpr", n.Span)
	case *SuperExpr:
		return m("SuperExpr", n.Span)
	case *BinaryExpr:
		return m("BinaryExpr", n.Span, "op", n.Op.String(), "left", NodeToMap(n.Left), "right", NodeToMap(n.Right))
	case *LogicalExpr:
		return m("LogicalExpr", n.Span, "op", n.Op.String(), "left", NodeToMap(n.Left), "right", NodeToMap(n.Right))
	case *UnaryExpr:
		return m("UnaryExpr", n.Span, "op", n.Op.String(), "operand", NodeToMap(n.Operand))
	case *UpdateExpr:
		return m("UpdateExpr", n.Span, "op", n.Op.String(), "operand", NodeToMap(n.Operand), "prefix", n.Prefix)
	case *AssignExpr:
		return m("AssignExpr", n.Span, "op", n.Op.String(), "target", NodeToMap(n.Target), "value", NodeToMap(n.Value))
	case *ConditionalExpr:
		return m("ConditionalExpr", n.Span,
			"condition", NodeToMap(n.Condition), "then", NodeToMap(n.Then), "else", NodeToMap(n.Else))
	case *CallExpr:
		return m("CallExpr", n.Span, "callee", NodeToMap(n.Callee), "args", exprSlice(n.Args), "optional", n.Optional)
	case *NewExpr:
		return m("NewExpr", n.Span, "callee", NodeToMap(n.Callee), "args", exprSlice(n.Args))
	case *MemberExpr:
		return m("MemberExpr", n.Span, "object", NodeToMap(n.Object), "property", n.Property, "optional", n.Optional)
	case *ComputedMemberExpr:
		return m("ComputedMemberExpr", n.Span,
			"object", NodeToMap(n.Object), "property", NodeToMap(n.Property), "optional", n.Optional)
	case *ArrayLit:
		return m("ArrayLit", n.Span, "elements", exprSlice(n.Elements))
	case *ObjectLit:
		props := make([]interface{}, len(n.Properties))
		for i, p := range n.Properties {
			props[i] = map[string]interface{}{
				"key": p.Key, "keyExpr": NodeToMap(p.KeyExpr), "computed": p.Computed,
				"spread": p.Spread, "value": NodeToMap(p.Value),
			}
		}
		return m("ObjectLit", n.Span, "properties", props)
	case *ArrowFunctionExpr:
		result := m("ArrowFunctionExpr", n.Span, "params", paramSlice(n.Params), "async", n.Async)
		if body, ok := n.Body.(Expr); ok {
			result["body"] = NodeToMap(body)
		} else if body, ok := n.Body.(*BlockStmt); ok {
			result["body"] = NodeToMap(body)
		}
		return result
	case *FunctionExpr:
		return m("FunctionExpr", n.Span, "name", n.Name, "params", paramSlice(n.Params), "body", NodeToMap(n.Body), "async", n.Async)
	case *SpreadExpr:
		return m("SpreadExpr", n.Span, "argument", NodeToMap(n.Argument))
	case *AwaitExpr:
		return m("AwaitExpr", n.Span, "argument", NodeToMap(n.Argument))
	case *YieldExpr:
		return m("YieldExpr", n.Span, "argument", NodeToMap(n.Argument), "delegate", n.Delegate)
	case *TemplateLiteral:
		return m("TemplateLiteral", n.Span, "parts", n.Parts, "exprs", exprSlice(n.Exprs))
	case *TaggedTemplateExpr:
		return m("TaggedTemplateExpr", n.Span, "tag", NodeToMap(n.Tag), "template", NodeToMap(n.Template))
	case *TypeAssertionExpr:
		return m("TypeAssertionExpr", n.Span, "type", NodeToMap(n.Type), "expression", NodeToMap(n.Expression))
	case *AsExpr:
		return m("AsExpr", n.Span, "expression", NodeToMap(n.Expression), "type", NodeToMap(n.Type))
	case *NonNullExpr:
		return m("NonNullExpr", n.Span, "expression", NodeToMap(n.Expression))
	case *ClassExpr:
		return m("ClassExpr", n.Span, "class", NodeToMap(n.Class))
	case *ParenExpr:
		return m("ParenExpr", n.Span, "expression", NodeToMap(n.Expression))

	// ---- Statements ----
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *EmptyStmt:
		return m("EmptyStmt", n.Span)
	case *VarDeclStmt:
		decls := make([]interface{}, len(n.Declarations))
		for i, d := range n.Declarations {
			decls[i] = map[string]interface{}{"name": d.Name, "init": NodeToMap(d.Init)}
		}
		return m("VarDeclStmt", n.Span, "kind", varKindStr(n.Kind), "declarations", decls)
	case *FunctionDecl:
		return m("FunctionDecl", n.Span, "name", n.Name, "params", paramSlice(n.Params), "body", NodeToMap(n.Body))
	case *ReturnStmt:
		result := m("ReturnStmt", n.Span)
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result
	case *BreakStmt:
		return m("BreakStmt", n.Span, "label", n.Label)
	case *ContinueStmt:
		return m("ContinueStmt", n.Span, "label", n.Label)
	case *BlockStmt:
		return m("BlockStmt", n.Span, "stmts", stmtSlice(n.Stmts))
	case *IfStmt:
		result := m("IfStmt", n.Span, "condition", NodeToMap(n.Condition), "then", NodeToMap(n.Then))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *WhileStmt:
		return m("WhileStmt", n.Span, "condition", NodeToMap(n.Condition), "body", NodeToMap(n.Body))
	case *DoWhileStmt:
		return m("DoWhileStmt", n.Span, "condition", NodeToMap(n.Condition), "body", NodeToMap(n.Body))
	case *ForStmt:
		result := m("ForStmt", n.Span, "body", NodeToMap(n.Body))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		if n.Condition != nil {
			result["condition"] = NodeToMap(n.Condition)
		}
		if n.Update != nil {
			result["update"] = NodeToMap(n.Update)
		}
		return result
	case *ForInStmt:
		return m("ForInStmt", n.Span, "varName", n.VarName, "object", NodeToMap(n.Object), "body", NodeToMap(n.Body))
	case *ForOfStmt:
		return m("ForOfStmt", n.Span, "varName", n.VarName, "iterable", NodeToMap(n.Iterable), "body", NodeToMap(n.Body))
	case *SwitchStmt:
		cases := make([]interface{}, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = map[string]interface{}{"test": NodeToMap(c.Test), "body": stmtSlice(c.Body)}
		}
		return m("SwitchStmt", n.Span, "discriminant", NodeToMap(n.Discriminant), "cases", cases)
	case *TryStmt:
		result := m("TryStmt", n.Span, "block", NodeToMap(n.Block))
		if n.Catch != nil {
			result["catch"] = map[string]interface{}{"param": n.Catch.Param, "body": NodeToMap(n.Catch.Body)}
		}
		if n.Finally != nil {
			result["finally"] = NodeToMap(n.Finally)
		}
		return result
	case *ThrowStmt:
		return m("ThrowStmt", n.Span, "value", NodeToMap(n.Value))
	case *ImportStmt:
		return m("ImportStmt", n.Span, "source", n.Source)
	case *ExportStmt:
		result := m("ExportStmt", n.Span, "default", n.Default)
		if n.Decl != nil {
			result["decl"] = NodeToMap(n.Decl)
		}
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result

	// ---- Type declarations ----
	case *InterfaceDecl:
		members := make([]interface{}, len(n.Members))
		for i, mem := range n.Members {
			members[i] = map[string]interface{}{"name": mem.Name, "optional": mem.Optional}
		}
		return m("InterfaceDecl", n.Span, "name", n.Name, "members", members)
	case *TypeAliasDecl:
		return m("TypeAliasDecl", n.Span, "name", n.Name)
	case *EnumDecl:
		members := make([]interface{}, len(n.Members))
		for i, mem := range n.Members {
			members[i] = map[string]interface{}{"name": mem.Name, "init": NodeToMap(mem.Init)}
		}
		return m("EnumDecl", n.Span, "name", n.Name, "const", n.Const, "members", members)
	case *ClassDecl:
		methods := make([]interface{}, len(n.Methods))
		for i, md := range n.Methods {
			methods[i] = map[string]interface{}{
				"name": md.Name, "params": paramSlice(md.Params), "body": NodeToMap(md.Body), "static": md.Static,
			}
		}
		props := make([]interface{}, len(n.Properties))
		for i, p := range n.Properties {
			props[i] = map[string]interface{}{"name": p.Name, "init": NodeToMap(p.Init), "static": p.Static}
		}
		return m("ClassDecl", n.Span, "name", n.Name, "methods", methods, "properties", props)

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{"offset": s.Start.Offset, "line": s.Start.Line, "column": s.Start.Column},
		"end":   map[string]interface{}{"offset": s.End.Offset, "line": s.End.Line, "column": s.End.Column},
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}

func paramSlice(params []Param) []interface{} {
	result := make([]interface{}, len(params))
	for i, p := range params {
		result[i] = map[string]interface{}{
			"name": p.Name, "optional": p.Optional, "rest": p.Rest,
		}
	}
	return result
}

func varKindStr(k VarKind) string {
	switch k {
	case VarKindLet:
		return "let"
	case VarKindConst:
		return "const"
	default:
		return "var"
	}
}

var _ = token.EOF // keep token import for future opStr-style helpers
