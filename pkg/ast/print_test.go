package ast

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/raulmonti/fig/pkg/types"
)

// parseExpr is a minimal recursive-descent reader for the canonical prefix
// form produced by Print. It exists only to exercise the AST round-trip
// invariant (spec §8, universal invariant 1); FIG's real surface grammar is
// produced by an out-of-scope parser front-end (spec §1).
func parseExpr(t *testing.T, s string) Expr {
	toks := tokenize(s)
	pos := 0
	e := parseTok(t, toks, &pos)
	return e
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	s = strings.ReplaceAll(s, "[", " [ ")
	s = strings.ReplaceAll(s, "]", " ] ")
	return strings.Fields(s)
}

func parseTok(t *testing.T, toks []string, pos *int) Expr {
	tok := toks[*pos]

	if tok == "(" {
		*pos++
		op := types.Op(toks[*pos])
		*pos++

		var args []Expr
		for toks[*pos] != ")" {
			args = append(args, parseTok(t, toks, pos))
		}
		*pos++

		if len(args) == 1 {
			return &UnOpExp{Op: op, Arg: args[0]}
		}

		return &BinOpExp{Op: op, Left: args[0], Right: args[1]}
	}

	*pos++

	if tok == "true" || tok == "false" {
		b, _ := strconv.ParseBool(tok)
		return &BConst{Value: b}
	}

	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return &IConst{Value: i}
	}

	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return &FConst{Value: f}
	}

	return &LocExp{Loc: &Identifier{Name: tok}}
}

func TestRoundTripExpression(t *testing.T) {
	orig := &BinOpExp{
		Op:   types.Add,
		Left: &LocExp{Loc: &Identifier{Name: "x"}},
		Right: &BinOpExp{
			Op:    types.Mul,
			Left:  &IConst{Value: 2},
			Right: &LocExp{Loc: &Identifier{Name: "y"}},
		},
	}

	text := Print(orig)
	reparsed := parseExpr(t, text)

	assert.Equal(t, text, Print(reparsed), "pretty-printing a reparsed expression must be stable")
}
