package diagnostics

import (
	"fmt"

	"github.com/funvibe/schemalang/internal/token"
	errors "gopkg.in/src-d/go-errors.v1"
)

// Every error the compiler can report belongs to one of these kinds. The kind
// carries the message template; a Diagnostic binds the kind to a source
// position. Wrapping src-d error kinds keeps kinds matchable in tests via
// Kind.Is without string comparison.
var (
	ErrDuplicateDefinition          = errors.NewKind("duplicate definition of %s %q")
	ErrUnresolvedItem               = errors.NewKind("unresolved item %q")
	ErrExpectedItemOfAnotherType    = errors.NewKind("expected %s, got %s")
	ErrTypeMismatch                 = errors.NewKind("type mismatch: cannot cast %s to %s")
	ErrCannotModifyReadOnlyVariable = errors.NewKind("cannot modify read-only variable %q")
	ErrNotAllBranchesReturn         = errors.NewKind("not all branches of the function body return a value")
	ErrUnreachableStatement         = errors.NewKind("unreachable statement")
	ErrNotAllowedHere               = errors.NewKind("%s not allowed here")
	ErrNotAllowedInside             = errors.NewKind("%s not allowed inside %s")
	ErrNotSupportedYet              = errors.NewKind("%s not supported yet")
	ErrUnexpectedToken              = errors.NewKind("expected %s, got %s")
	ErrIllegalCharacter             = errors.NewKind("illegal character %q")
	ErrUndefinedVariable            = errors.NewKind("undefined variable %q")
	ErrArgumentCount                = errors.NewKind("function %q expects %d argument(s), got %d")
	ErrUnknownProperty              = errors.NewKind("type %s has no property %q")
	ErrProject                      = errors.NewKind("project: %s")
)

// Diagnostic is a single compiler error bound to a source position.
type Diagnostic struct {
	Kind  *errors.Kind
	Token token.Token
	File  string
	err   error
}

// New builds a diagnostic of the given kind at the given token.
func New(kind *errors.Kind, tok token.Token, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:  kind,
		Token: tok,
		err:   kind.New(args...),
	}
}

func (d *Diagnostic) Error() string {
	where := d.Token.Position()
	if d.File != "" {
		where = d.File + ":" + where
	}
	return fmt.Sprintf("%s: %s", where, d.err.Error())
}

// Message returns the diagnostic text without the position prefix.
func (d *Diagnostic) Message() string {
	return d.err.Error()
}

// Is reports whether the diagnostic belongs to kind.
func (d *Diagnostic) Is(kind *errors.Kind) bool {
	return d.Kind == kind
}

// List accumulates diagnostics across a compilation stage. Stages keep
// resolving after the first error, so the list grows until the stage ends.
type List []*Diagnostic

func (l *List) Append(ds ...*Diagnostic) {
	*l = append(*l, ds...)
}

// SetFile fills the file path on diagnostics that do not carry one yet.
func (l List) SetFile(file string) {
	for _, d := range l {
		if d.File == "" {
			d.File = file
		}
	}
}

// HasKind reports whether any accumulated diagnostic belongs to kind.
func (l List) HasKind(kind *errors.Kind) bool {
	for _, d := range l {
		if d.Is(kind) {
			return true
		}
	}
	return false
}

func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return fmt.Errorf("%d error(s), first: %s", len(l), l[0].Error())
}
