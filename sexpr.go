package main

import (
	"strconv"
	"strings"
)

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node Node) string {
	switch n := node.(type) {
	case *Program:
		return "(program " + ToSExpr(n.Body) + ")"
	case *Statements:
		result := "(statements"
		for _, st := range n.Items {
			result += " " + ToSExpr(st)
		}
		return result + ")"
	case *If:
		return "(if " + ToSExpr(n.Condition) + " " + ToSExpr(n.Then) + ")"
	case *IfElse:
		return "(if-el " + ToSExpr(n.Condition) + " " + ToSExpr(n.Then) + " " + ToSExpr(n.Else) + ")"
	case *While:
		return "(wl " + ToSExpr(n.Condition) + " " + ToSExpr(n.Body) + ")"
	case *For:
		return "(fr " + ToSExpr(n.Init) + " " + ToSExpr(n.Body) + ")"
	case *Assign:
		return "(assign " + ToSExpr(n.Target) + " " + ToSExpr(n.Value) + ")"
	case *Output:
		return "(ot " + ToSExpr(n.Value) + ")"
	case *Input:
		return "(in " + ToSExpr(n.Target) + ")"
	case *Comparison:
		return "(compare \"" + string(n.Op) + "\" " + ToSExpr(n.Left) + " " + ToSExpr(n.Right) + ")"
	case *Or:
		return "(or " + ToSExpr(n.Left) + " " + ToSExpr(n.Right) + ")"
	case *And:
		return "(and " + ToSExpr(n.Left) + " " + ToSExpr(n.Right) + ")"
	case *Not:
		return "(nt " + ToSExpr(n.Operand) + ")"
	case *BinaryExpr:
		return "(binary \"" + string(n.Op) + "\" " + ToSExpr(n.Left) + " " + ToSExpr(n.Right) + ")"
	case *NumberLiteral:
		return "(number " + strconv.Itoa(int(n.Value)) + ")"
	case *Identifier:
		return "(var \"" + n.Name + "\")"
	default:
		return ""
	}
}

// Indented renders node as a tree, one node per line, four spaces per level.
func Indented(node Node) string {
	var sb strings.Builder
	writeIndented(&sb, node, 0)
	return sb.String()
}

func writeIndented(sb *strings.Builder, node Node, level int) {
	line := func(s string) {
		sb.WriteString(strings.Repeat("    ", level))
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	children := func(nodes ...Node) {
		for _, child := range nodes {
			writeIndented(sb, child, level+1)
		}
	}

	switch n := node.(type) {
	case *Program:
		writeIndented(sb, n.Body, level)
	case *Statements:
		line("Statements")
		for _, st := range n.Items {
			children(st)
		}
	case *If:
		line("If")
		children(n.Condition, n.Then)
	case *IfElse:
		line("If-El")
		children(n.Condition, n.Then, n.Else)
	case *While:
		line("Wl")
		children(n.Condition, n.Body)
	case *For:
		line("Fr")
		children(n.Init, n.Body)
	case *Assign:
		line("Assign")
		children(n.Target, n.Value)
	case *Output:
		line("Ot")
		children(n.Value)
	case *Input:
		line("In")
		children(n.Target)
	case *Comparison:
		line(string(n.Op))
		children(n.Left, n.Right)
	case *Or:
		line("|")
		children(n.Left, n.Right)
	case *And:
		line("&")
		children(n.Left, n.Right)
	case *Not:
		line("nt")
		children(n.Operand)
	case *BinaryExpr:
		line(string(n.Op))
		children(n.Left, n.Right)
	case *NumberLiteral:
		line(n.Text)
	case *Identifier:
		line(n.Name)
	}
}

// Source renders node back into Small source. Arithmetic is fully
// parenthesized; boolean operators are not, since the grammar has no
// boolean grouping. Trees produced by the parser re-parse to themselves.
func Source(node Node) string {
	switch n := node.(type) {
	case *Program:
		return Source(n.Body)
	case *Statements:
		parts := make([]string, len(n.Items))
		for i, st := range n.Items {
			parts[i] = Source(st)
		}
		return strings.Join(parts, "; ")
	case *If:
		return "if " + Source(n.Condition) + " { " + Source(n.Then) + " }"
	case *IfElse:
		return "if " + Source(n.Condition) + " { " + Source(n.Then) + " } el { " + Source(n.Else) + " }"
	case *While:
		return "wl " + Source(n.Condition) + " { " + Source(n.Body) + " }"
	case *For:
		return "fr " + Source(n.Init) + " { " + Source(n.Body) + " }"
	case *Assign:
		return Source(n.Target) + ":" + Source(n.Value)
	case *Output:
		return "ot " + Source(n.Value)
	case *Input:
		return "in " + Source(n.Target)
	case *Comparison:
		return Source(n.Left) + string(n.Op) + Source(n.Right)
	case *Or:
		return Source(n.Left) + " | " + Source(n.Right)
	case *And:
		return Source(n.Left) + " & " + Source(n.Right)
	case *Not:
		return "nt " + Source(n.Operand)
	case *BinaryExpr:
		return "(" + Source(n.Left) + string(n.Op) + Source(n.Right) + ")"
	case *NumberLiteral:
		return n.Text
	case *Identifier:
		return n.Name
	default:
		return ""
	}
}
