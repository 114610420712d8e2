package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// Capitalize upper-cases the first code point of input and leaves the rest
// unchanged. Full Unicode upper-casing, not ASCII.
func Capitalize(input string) string {
	if input == "" {
		return ""
	}
	runes := []rune(input)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// ClassStyle splits name on runs of non-alphanumeric characters and
// concatenates each nonempty segment with its first code point upper-cased:
// "user_id_42" -> "UserId42". Repeated application is a fixed point.
func ClassStyle(name string) string {
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, segment := range segments {
		b.WriteString(Capitalize(segment))
	}
	return b.String()
}

// GenerateName appends _0, _1, ... to name until free accepts it.
func GenerateName(free func(string) bool, name string) string {
	if free(name) {
		return name
	}
	for counter := 0; ; counter++ {
		candidate := name + "_" + strconv.Itoa(counter)
		if free(candidate) {
			return candidate
		}
	}
}

// NameUniquer hands out names that are unique within one emission scope.
// Every returned name is reserved for the lifetime of the uniquer.
type NameUniquer struct {
	names map[string]struct{}
}

func NewNameUniquer() *NameUniquer {
	return &NameUniquer{names: make(map[string]struct{})}
}

// AddName returns candidate if unused, else the first free candidate_N.
// The returned name is added to the reserved set.
func (n *NameUniquer) AddName(candidate string) string {
	name := GenerateName(func(s string) bool {
		_, taken := n.names[s]
		return !taken
	}, candidate)
	n.names[name] = struct{}{}
	return name
}

// AddClassStyleName reserves the class-styled form of name.
func (n *NameUniquer) AddClassStyleName(name string) string {
	return n.AddName(ClassStyle(name))
}

// AliasNameUniquer memoizes alias assignments on top of a NameUniquer:
// repeated calls with the same input return the same generated alias.
type AliasNameUniquer struct {
	uniquer *NameUniquer
	aliases map[string]string
}

func NewAliasNameUniquer(uniquer *NameUniquer) *AliasNameUniquer {
	return &AliasNameUniquer{
		uniquer: uniquer,
		aliases: make(map[string]string),
	}
}

// MakeAlias returns the stable alias for name, generating one on first use.
func (a *AliasNameUniquer) MakeAlias(name string) string {
	if alias, ok := a.aliases[name]; ok {
		return alias
	}
	alias := a.uniquer.AddName(name)
	a.aliases[name] = alias
	return alias
}

// GetAlias returns the alias previously generated for name, if any.
func (a *AliasNameUniquer) GetAlias(name string) (string, bool) {
	alias, ok := a.aliases[name]
	return alias, ok
}
