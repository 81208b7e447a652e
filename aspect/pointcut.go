package aspect

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pointcut is the match predicate scoping an advisor. MatchesType is the
// static filter checked once per wrapper; MatchesMethod is checked per
// capability method when the wrapper is built.
type Pointcut interface {
	MatchesType(target reflect.Type) bool
	MatchesMethod(m Method, target reflect.Type) bool
}

type allPointcut struct{}

func (allPointcut) MatchesType(reflect.Type) bool           { return true }
func (allPointcut) MatchesMethod(Method, reflect.Type) bool { return true }
func (allPointcut) String() string                          { return "all" }

// All matches every type and method.
func All() Pointcut { return allPointcut{} }

type namePointcut struct {
	patterns []string
}

// NameMatch matches methods whose name matches any of the glob patterns
// (e.g. "Transform*", "{Get,Set}*").
func NameMatch(patterns ...string) (Pointcut, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("aspect: name pointcut needs at least one pattern")
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("aspect: invalid name pattern %q", p)
		}
	}
	return namePointcut{patterns: append([]string(nil), patterns...)}, nil
}

func (namePointcut) MatchesType(reflect.Type) bool { return true }

func (p namePointcut) MatchesMethod(m Method, _ reflect.Type) bool {
	for _, pattern := range p.patterns {
		if ok, err := doublestar.Match(pattern, m.Name); err == nil && ok {
			return true
		}
	}
	return false
}

func (p namePointcut) String() string { return "name(" + strings.Join(p.patterns, ",") + ")" }

type regexpPointcut struct {
	exprs []*regexp.Regexp
}

// Regexp matches methods whose full name ("pkg/path.Interface.Method")
// matches any of the patterns. Patterns are anchored like full-name matches:
// ".*" matches everything.
func Regexp(patterns ...string) (Pointcut, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("aspect: regexp pointcut needs at least one pattern")
	}
	exprs := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("aspect: invalid regexp %q: %w", p, err)
		}
		exprs = append(exprs, re)
	}
	return regexpPointcut{exprs: exprs}, nil
}

func (regexpPointcut) MatchesType(reflect.Type) bool { return true }

func (p regexpPointcut) MatchesMethod(m Method, _ reflect.Type) bool {
	name := m.FullName()
	for _, re := range p.exprs {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

type typePointcut struct {
	types []reflect.Type
}

// ForTargets matches targets whose dynamic type is one of types, or
// implements one of them when it is an interface type.
func ForTargets(types ...reflect.Type) Pointcut {
	return typePointcut{types: append([]reflect.Type(nil), types...)}
}

// TargetType is ForTargets for a single static type.
func TargetType[T any]() Pointcut {
	return ForTargets(reflect.TypeFor[T]())
}

func (p typePointcut) MatchesType(target reflect.Type) bool {
	if target == nil {
		return false
	}
	for _, t := range p.types {
		if target == t {
			return true
		}
		if t.Kind() == reflect.Interface && target.Implements(t) {
			return true
		}
	}
	return false
}

func (p typePointcut) MatchesMethod(_ Method, target reflect.Type) bool {
	return target == nil || p.MatchesType(target)
}

type intersection struct {
	parts []Pointcut
}

// Intersect matches only where every pointcut matches.
func Intersect(first Pointcut, rest ...Pointcut) Pointcut {
	return intersection{parts: append([]Pointcut{first}, rest...)}
}

func (p intersection) MatchesType(target reflect.Type) bool {
	for _, part := range p.parts {
		if !part.MatchesType(target) {
			return false
		}
	}
	return true
}

func (p intersection) MatchesMethod(m Method, target reflect.Type) bool {
	for _, part := range p.parts {
		if !part.MatchesMethod(m, target) {
			return false
		}
	}
	return true
}
