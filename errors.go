package adtmatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/adtmatch/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Declaration-time failures.
	CodeDuplicateType    = "duplicate_type"
	CodeUnknownType      = "unknown_type"
	CodeNotASumType      = "not_a_sum_type"
	CodeDuplicateVariant = "duplicate_variant"
	CodeEmptySum         = "empty_sum"
	CodeCyclicSum        = "cyclic_sum"
	CodeArityMismatch    = "arity_mismatch"
	CodeNotASubtype      = "not_a_subtype"
	CodeDuplicateBinding = "duplicate_binding"
	CodeInvalidPattern   = "invalid_pattern"
	CodeParseError       = "parse_error"
	CodeInvalidValue     = "invalid_value"
	CodeDuplicateKey     = "duplicate_key"
	// Analysis diagnostics (advisory).
	CodeNonExhaustive    = "non_exhaustive"
	CodeRedundantPattern = "redundant_pattern"
)

// Issue represents a single diagnostic entry.
type Issue struct {
	Path    string // JSON Pointer into the pattern or clause list (for example: /clauses/2/args/0).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints such as a witness.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"want":2, "got":3})
	// for i18n and tooling.
	Params map[string]any
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. redundant_pattern at /clauses/4
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error. Typed declaration errors are
// converted into a single-element Issues.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var is issuer
	if errors.As(err, &is) {
		it := is.Issue()
		it.Cause = err
		return Issues{it}, true
	}
	return nil, false
}

// issuer is implemented by every typed declaration error.
type issuer interface {
	Issue() Issue
}

var (
	// ErrEmptySum is returned when a closed sum is declared without variants.
	ErrEmptySum = errors.New("adtmatch: closed sum must declare at least one variant")
	// ErrRegistrySealed is returned by Register once the setup phase ended.
	ErrRegistrySealed = errors.New("adtmatch: registry is sealed")
)

// DuplicateTypeError reports a second registration under an existing name.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("adtmatch: type %q is already registered", e.Name)
}

func (e *DuplicateTypeError) Issue() Issue {
	return Issue{Path: "/", Code: CodeDuplicateType, Message: i18n.T(CodeDuplicateType, nil), Params: map[string]any{"type": e.Name}}
}

// UnknownTypeError reports a name that the registry cannot resolve.
type UnknownTypeError struct {
	Name string
	Path string
}

func (e *UnknownTypeError) Error() string {
	if e.Path != "" && e.Path != "/" {
		return fmt.Sprintf("adtmatch: unknown type %q at %s", e.Name, e.Path)
	}
	return fmt.Sprintf("adtmatch: unknown type %q", e.Name)
}

func (e *UnknownTypeError) Issue() Issue {
	return Issue{Path: pathOrRoot(e.Path), Code: CodeUnknownType, Message: i18n.T(CodeUnknownType, nil), Params: map[string]any{"type": e.Name}}
}

// NotASumTypeError is returned by VariantsOf for anything but a ClosedSum.
type NotASumTypeError struct {
	Type Type
}

func (e *NotASumTypeError) Error() string {
	return fmt.Sprintf("adtmatch: %s is a %s, not a closed sum", e.Type.Name(), e.Type.Kind())
}

func (e *NotASumTypeError) Issue() Issue {
	return Issue{Path: "/", Code: CodeNotASumType, Message: i18n.T(CodeNotASumType, nil), Params: map[string]any{"type": e.Type.Name()}}
}

// DuplicateVariantError reports a variant listed twice in one closed sum.
type DuplicateVariantError struct {
	Sum     string
	Variant string
}

func (e *DuplicateVariantError) Error() string {
	return fmt.Sprintf("adtmatch: closed sum %q lists variant %q more than once", e.Sum, e.Variant)
}

func (e *DuplicateVariantError) Issue() Issue {
	return Issue{Path: "/", Code: CodeDuplicateVariant, Message: i18n.T(CodeDuplicateVariant, nil), Params: map[string]any{"type": e.Sum, "variant": e.Variant}}
}

// CyclicSumError reports a closed sum that permits itself through nested
// sums; such a hierarchy has no leaves to enumerate.
type CyclicSumError struct {
	Sum  string
	Path string
}

func (e *CyclicSumError) Error() string {
	return fmt.Sprintf("adtmatch: closed sum %q permits itself", e.Sum)
}

func (e *CyclicSumError) Issue() Issue {
	return Issue{Path: pathOrRoot(e.Path), Code: CodeCyclicSum, Message: i18n.T(CodeCyclicSum, nil), Params: map[string]any{"type": e.Sum}}
}

// ArityMismatchError reports a deconstruction (or record value) whose number
// of components differs from the product's field count.
type ArityMismatchError struct {
	Type *Product
	Want int
	Got  int
	Path string
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("adtmatch: %s has %d fields, got %d at %s", e.Type.Name(), e.Want, e.Got, pathOrRoot(e.Path))
}

func (e *ArityMismatchError) Issue() Issue {
	return Issue{
		Path:    pathOrRoot(e.Path),
		Code:    CodeArityMismatch,
		Message: i18n.T(CodeArityMismatch, nil),
		Params:  map[string]any{"type": e.Type.Name(), "want": e.Want, "got": e.Got},
	}
}

// NotASubtypeError reports a type test or deconstruction naming a type that
// the expected type cannot hold.
type NotASubtypeError struct {
	Type     Type
	Expected Type
	Path     string
}

func (e *NotASubtypeError) Error() string {
	return fmt.Sprintf("adtmatch: %s is not a variant of %s at %s", e.Type.Name(), e.Expected.Name(), pathOrRoot(e.Path))
}

func (e *NotASubtypeError) Issue() Issue {
	return Issue{
		Path:    pathOrRoot(e.Path),
		Code:    CodeNotASubtype,
		Message: i18n.T(CodeNotASubtype, nil),
		Hint:    "expected one of: " + strings.Join(variantNames(e.Expected), ", "),
		Params:  map[string]any{"type": e.Type.Name(), "expected": e.Expected.Name()},
	}
}

// DuplicateBindingError reports a binding name used twice in one pattern.
type DuplicateBindingError struct {
	Name string
	Path string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("adtmatch: binding %q declared twice (second at %s)", e.Name, pathOrRoot(e.Path))
}

func (e *DuplicateBindingError) Issue() Issue {
	return Issue{Path: pathOrRoot(e.Path), Code: CodeDuplicateBinding, Message: i18n.T(CodeDuplicateBinding, nil), Params: map[string]any{"name": e.Name}}
}

// InvalidPatternError reports a syntax node that cannot become a pattern.
type InvalidPatternError struct {
	Path   string
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("adtmatch: invalid pattern at %s: %s", pathOrRoot(e.Path), e.Reason)
}

func (e *InvalidPatternError) Issue() Issue {
	return Issue{Path: pathOrRoot(e.Path), Code: CodeInvalidPattern, Message: i18n.T(CodeInvalidPattern, nil), Hint: e.Reason}
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func variantNames(t Type) []string {
	cs, ok := t.(*ClosedSum)
	if !ok {
		return []string{t.Name()}
	}
	out := make([]string, 0, len(cs.variants))
	for _, v := range cs.variants {
		out = append(out, v.Name())
	}
	return out
}
