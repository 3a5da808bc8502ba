package dsl

import "github.com/reoring/adtmatch"

// Any is the wildcard pattern `_`.
func Any() adtmatch.Syntax { return adtmatch.Syntax{Kind: adtmatch.SyntaxWildcard} }

// Var binds the whole value to name.
func Var(name string) adtmatch.Syntax {
	return adtmatch.Syntax{Kind: adtmatch.SyntaxBind, Name: name}
}

// Is tests the value's type, e.g. Is("C") for `C`.
func Is(typ string) adtmatch.Syntax {
	return adtmatch.Syntax{Kind: adtmatch.SyntaxType, Type: typ}
}

// IsAs tests the value's type and binds it, e.g. `C c`.
func IsAs(typ, name string) adtmatch.Syntax {
	return adtmatch.Syntax{Kind: adtmatch.SyntaxType, Type: typ, Name: name}
}

// Rec deconstructs a record: Rec("Pair", Is("C"), Any()) is `Pair(C, _)`.
func Rec(typ string, args ...adtmatch.Syntax) adtmatch.Syntax {
	return adtmatch.Syntax{Kind: adtmatch.SyntaxDeconstruct, Type: typ, Args: nonNil(args)}
}

// RecAs is Rec that also binds the whole record to name.
func RecAs(typ, name string, args ...adtmatch.Syntax) adtmatch.Syntax {
	s := Rec(typ, args...)
	s.Name = name
	return s
}

// Row is one clause of a multi-subject match: Row(Is("C"), Any()) is
// `(C, _)`.
func Row(args ...adtmatch.Syntax) adtmatch.Syntax {
	return adtmatch.Syntax{Kind: adtmatch.SyntaxDeconstruct, Args: nonNil(args)}
}

// Lit matches values equal to v at an atomic position.
func Lit(v any) adtmatch.Syntax {
	return adtmatch.Syntax{Kind: adtmatch.SyntaxLiteral, Value: v}
}

// LitOf is Lit with an explicit atomic type, required at open positions.
func LitOf(typ string, v any) adtmatch.Syntax {
	return adtmatch.Syntax{Kind: adtmatch.SyntaxLiteral, Type: typ, Value: v}
}

func nonNil(args []adtmatch.Syntax) []adtmatch.Syntax {
	if args == nil {
		return []adtmatch.Syntax{}
	}
	return args
}
