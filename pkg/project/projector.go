package project

import "github.com/raulmonti/fig/pkg/ast"

// Split is one property's clauses projected onto one module: the clauses
// drawn from the property's rare/goal side and, separately, from its
// complementary side, each restricted to the subset whose free variables
// lie entirely within the module's variable set (spec §4.10).
//
// Which ast.Property field is "rare" is fixed per kind: Transient's Right
// (the states being reached), Rate/TBoundSS's Body (there is no
// complementary side, so Others is always empty for those kinds) — this is
// the resolution of the property's own Open Question about what "rares"
// means outside Transient.
type Split struct {
	Rares  []Clause
	Others []Clause
}

// Projector holds the last projection computed per property id, making
// re-projection of the same id idempotent: Project overwrites rather than
// appends (spec §4.10: "repeated population with the same property id is
// idempotent").
type Projector struct {
	results map[string]map[string]*Split // property id -> module name -> split
}

// NewProjector returns an empty projector.
func NewProjector() *Projector {
	return &Projector{results: map[string]map[string]*Split{}}
}

// Project splits p into rare/other clauses and distributes them across
// every module in moduleVars (module name -> set of that module's variable
// names), storing the result under propertyID.
func (pr *Projector) Project(propertyID string, p ast.Property, moduleVars map[string]map[string]bool) map[string]*Split {
	rareClauses, otherClauses := sidesOf(p)

	perModule := make(map[string]*Split, len(moduleVars))

	for mod, vars := range moduleVars {
		perModule[mod] = &Split{
			Rares:  filterContained(rareClauses, vars),
			Others: filterContained(otherClauses, vars),
		}
	}

	pr.results[propertyID] = perModule

	return perModule
}

// For reasserts the last projection stored for propertyID, or nil if
// Project has never run for it.
func (pr *Projector) For(propertyID string) map[string]*Split {
	return pr.results[propertyID]
}

func sidesOf(p ast.Property) (rare, other []Clause) {
	switch pp := p.(type) {
	case *ast.Transient:
		return splitDNF(pp.Right), splitDNF(pp.Left)
	case *ast.Rate:
		return splitDNF(pp.Body), nil
	case *ast.TBoundSS:
		return splitDNF(pp.Body), nil
	default:
		return nil, nil
	}
}

func filterContained(clauses []Clause, vars map[string]bool) []Clause {
	var out []Clause

	for _, c := range clauses {
		if c.containedIn(vars) {
			out = append(out, c)
		}
	}

	return out
}
