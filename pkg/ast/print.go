package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders an expression as a fully-parenthesised prefix form, e.g.
// "(+ x (* 2 y))". This is FIG's internal canonical form for expressions
// (used for diagnostics and for the AST round-trip invariant of spec §8); it
// is not the surface syntax the model/properties files are written in,
// which is produced by the (out-of-scope) parser front-end.
func Print(e Expr) string {
	var b strings.Builder
	print(&b, e)
	return b.String()
}

func print(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *IConst:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *BConst:
		b.WriteString(strconv.FormatBool(n.Value))
	case *FConst:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *LocExp:
		printLocation(b, n.Loc)
	case *UnOpExp:
		fmt.Fprintf(b, "(%s ", n.Op)
		print(b, n.Arg)
		b.WriteString(")")
	case *BinOpExp:
		fmt.Fprintf(b, "(%s ", n.Op)
		print(b, n.Left)
		b.WriteString(" ")
		print(b, n.Right)
		b.WriteString(")")
	case *ArrayCallExp:
		fmt.Fprintf(b, "(%s ", n.Op)
		printLocation(b, n.Arr)
		for _, a := range n.Args {
			b.WriteString(" ")
			print(b, a)
		}
		b.WriteString(")")
	default:
		b.WriteString("<?>")
	}
}

func printLocation(b *strings.Builder, loc Location) {
	switch l := loc.(type) {
	case *Identifier:
		b.WriteString(l.Name)
	case *IndexedIdentifier:
		b.WriteString(l.Name)
		b.WriteString("[")
		print(b, l.Index)
		b.WriteString("]")
	}
}
