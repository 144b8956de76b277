// Package argset splits a mesh2ww command line into independent tally requests.
//
// Requests are separated by a literal "+" token:
//
//	mesh2ww a.msht 14 -p 0.8 + b.msht 24 --total
//
// Each run of tokens becomes an ArgumentSet prefixed with the program name so it
// can be handed to a flag parser as if it were a command line of its own.
package argset

import "slices"

// Separator is the token that delimits tally requests.
const Separator = "+"

// ArgumentSet is one tally request. Element 0 is the program name.
type ArgumentSet []string

// Program returns the synthetic program name, or "" for a zero set.
func (s ArgumentSet) Program() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Args returns the tokens after the program name.
func (s ArgumentSet) Args() []string {
	if len(s) == 0 {
		return nil
	}
	return s[1:]
}

// Empty reports whether the set carries no tokens beyond the program name.
func (s ArgumentSet) Empty() bool {
	return len(s.Args()) == 0
}

// Tokens performs the single tokenisation pass over a raw argv (including the
// program name at index 0). Everything downstream works on the returned slice.
func Tokens(argv []string) (program string, tokens []string) {
	if len(argv) == 0 {
		return "", nil
	}
	return argv[0], slices.Clone(argv[1:])
}

// Split partitions tokens on exact occurrences of Separator. A value that merely
// contains "+" is not a separator. Empty runs (leading, trailing or doubled
// separators) are kept and fail later during parsing.
func Split(program string, tokens []string) []ArgumentSet {
	sets := make([]ArgumentSet, 0, 1+countSeparators(tokens))
	start := 0
	for i, tok := range tokens {
		if tok != Separator {
			continue
		}
		sets = append(sets, newSet(program, tokens[start:i]))
		start = i + 1
	}
	return append(sets, newSet(program, tokens[start:]))
}

// Join is the inverse of Split: it drops the program names and reconnects the
// sets with Separator.
func Join(sets []ArgumentSet) []string {
	var out []string
	for i, s := range sets {
		if i > 0 {
			out = append(out, Separator)
		}
		out = append(out, s.Args()...)
	}
	return out
}

// Has reports whether any token in tokens equals one of names.
func Has(tokens []string, names ...string) bool {
	return slices.ContainsFunc(tokens, func(tok string) bool {
		return slices.Contains(names, tok)
	})
}

func newSet(program string, run []string) ArgumentSet {
	set := make(ArgumentSet, 0, len(run)+1)
	set = append(set, program)
	return append(set, run...)
}

func countSeparators(tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if tok == Separator {
			n++
		}
	}
	return n
}
