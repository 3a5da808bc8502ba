package adtmatch

import (
	"fmt"
	"strings"

	"github.com/reoring/adtmatch/i18n"
)

// DefaultMaxWitnesses bounds the witnesses reported for one statement.
const DefaultMaxWitnesses = 3

// RedundancyMode selects when a clause is reported unreachable.
type RedundancyMode int

const (
	// RedundancyDominance flags a clause when a single earlier clause
	// matches every value it matches, or when it is a catch-all following
	// clauses that are already exhaustive.
	RedundancyDominance RedundancyMode = iota
	// RedundancyUnion flags a clause when the earlier clauses together match
	// every value it matches.
	RedundancyUnion
)

// Checker decides exhaustiveness and redundancy of pattern lists from
// declared types and pattern shapes alone; it never sees runtime values.
// Checks are pure: the same input always yields the same Report.
type Checker struct {
	reg          *Registry
	MaxWitnesses int
	Redundancy   RedundancyMode
}

// NewChecker seals reg and returns a Checker over it.
func NewChecker(reg *Registry) *Checker {
	reg.Seal()
	return &Checker{reg: reg, MaxWitnesses: DefaultMaxWitnesses}
}

// Registry returns the registry the checker was created with.
func (c *Checker) Registry() *Registry { return c.reg }

// Check analyses patterns, in declaration order, against subject.
func (c *Checker) Check(subject Type, patterns []Pattern) *Report {
	clauses := make([]Clause, len(patterns))
	for i, p := range patterns {
		clauses[i] = Clause{Pattern: p}
	}
	return c.analyze("", subject, clauses)
}

// CheckTuple analyses a multi-subject match whose rows were built with
// Builder.BuildTuple over the same subjects.
func (c *Checker) CheckTuple(subjects []Type, rows []Pattern) *Report {
	return c.Check(Tuple(subjects...), rows)
}

// CheckStatement analyses a declared statement. Guarded clauses are examined
// for redundancy but contribute no coverage, since their guard may fail.
func (c *Checker) CheckStatement(st *Statement) *Report {
	return c.analyze(st.Name, st.Subject, st.Clauses)
}

func (c *Checker) analyze(name string, subject Type, clauses []Clause) *Report {
	rep := &Report{Statement: name, Subject: subject}
	residual := fullSpace(subject)
	var covered []*space
	for i, cl := range clauses {
		ps := patternSpace(cl.Pattern)
		if c.redundant(subject, ps, covered, residual) {
			rep.Redundant = append(rep.Redundant, i)
			rep.Warnings = append(rep.Warnings, RedundantPatternWarning{Index: i, Pattern: cl.Pattern, Guarded: cl.Guard != nil})
		}
		if cl.Guard != nil {
			continue
		}
		covered = append(covered, ps)
		residual = subtract(residual, ps)
	}
	rep.Exhaustive = residual.isEmpty()
	if !rep.Exhaustive {
		limit := c.MaxWitnesses
		if limit <= 0 {
			limit = 1
		}
		rep.Witnesses = witnesses(residual, limit)
		rep.Witness = &rep.Witnesses[0]
	}
	return rep
}

func (c *Checker) redundant(subject Type, ps *space, covered []*space, residual *space) bool {
	if c.Redundancy == RedundancyUnion {
		rem := ps
		for _, cv := range covered {
			rem = subtract(rem, cv)
			if rem.isEmpty() {
				return true
			}
		}
		return rem.isEmpty()
	}
	for _, cv := range covered {
		if subtract(ps, cv).isEmpty() {
			return true
		}
	}
	return residual.isEmpty() && subtract(fullSpace(subject), ps).isEmpty()
}

// Report is the advisory verdict for one match statement.
type Report struct {
	Statement  string
	Subject    Type
	Exhaustive bool
	// Witness is the first uncovered shape; nil when Exhaustive.
	Witness   *Shape
	Witnesses []Shape
	// Redundant lists indices of clauses that can never be selected.
	Redundant []int
	Warnings  []RedundantPatternWarning
}

// OK reports an exhaustive statement without redundant clauses.
func (r *Report) OK() bool { return r.Exhaustive && len(r.Redundant) == 0 }

// IsRedundant reports whether clause i was flagged.
func (r *Report) IsRedundant(i int) bool {
	for _, j := range r.Redundant {
		if j == i {
			return true
		}
	}
	return false
}

// Issues renders the verdict as advisory diagnostics. The result is never
// returned as an error by this package.
func (r *Report) Issues() Issues {
	var out Issues
	if !r.Exhaustive {
		ws := make([]string, len(r.Witnesses))
		for i, w := range r.Witnesses {
			ws[i] = w.Describe()
		}
		it := RootPath().Issue(CodeNonExhaustive, i18n.T(CodeNonExhaustive, map[string]string{"subject": r.Subject.Name()}),
			"subject", r.Subject.Name(), "witnesses", ws)
		it.Hint = "not covered: " + strings.Join(ws, ", ")
		out = AppendIssues(out, it)
	}
	for _, w := range r.Warnings {
		it := ClausePath(w.Index).Issue(CodeRedundantPattern, i18n.T(CodeRedundantPattern, nil), "pattern", w.Pattern.String())
		it.Hint = "earlier clauses already match every value of " + w.Pattern.String()
		out = AppendIssues(out, it)
	}
	return out
}

func (r *Report) String() string {
	b := &strings.Builder{}
	if r.Statement != "" {
		fmt.Fprintf(b, "%s: ", r.Statement)
	}
	if r.Exhaustive {
		b.WriteString("exhaustive")
	} else {
		fmt.Fprintf(b, "not exhaustive (e.g. %s)", r.Witness.Describe())
	}
	if len(r.Redundant) > 0 {
		fmt.Fprintf(b, ", redundant clauses %v", r.Redundant)
	}
	return b.String()
}

// RedundantPatternWarning marks a clause whose pattern only covers values
// already claimed by earlier clauses.
type RedundantPatternWarning struct {
	Index   int
	Pattern Pattern
	Guarded bool
}

func (w RedundantPatternWarning) String() string {
	return fmt.Sprintf("clause %d (%s) is unreachable", w.Index, w.Pattern)
}
