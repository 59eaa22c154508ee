package eval

import (
	"strings"

	"github.com/cwbudde/exprlang/internal/value"
)

// scope holds a single evaluation's state: `inputFields` (the caller's
// read-only snapshot) and `mutableFields` (initialized as a copy of
// inputFields, updated by Set) — two maps over the same case-folded
// comparator, owned solely by the scope and never shared across
// executions (§3, §9 "Scope as two maps").
type scope struct {
	inputFields   map[string]value.Value
	mutableFields map[string]value.Value

	// assigned tracks which mutableFields keys were actually written by a
	// Set statement, so ExecutionResult.assignments reports only Set
	// targets rather than every field copied in from the input snapshot.
	assigned map[string]struct{}

	caseInsensitive bool
	validator       FieldNameValidator
	strictNames     bool
}

func newScope(input map[string]value.Value, opts Options) *scope {
	s := &scope{
		inputFields:     input,
		mutableFields:   make(map[string]value.Value, len(input)),
		assigned:        make(map[string]struct{}),
		caseInsensitive: opts.CaseInsensitiveFieldNames,
		validator:       opts.FieldNameValidator,
		strictNames:     opts.StrictFieldNameValidation,
	}
	for k, v := range input {
		s.mutableFields[k] = v
	}
	return s
}

func (s *scope) fieldKey(name string) string {
	if s.caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// validateName runs the configured FieldNameValidator (or the strict
// `[A-Za-z0-9_ ]+` check when no validator is set and
// StrictFieldNameValidation is on) against name's original spelling, before
// any case folding (§4.4, §9 Open Question 2).
func (s *scope) validateName(name string) error {
	if s.validator != nil {
		return s.validator(name)
	}
	if s.strictNames {
		return validateStrictFieldName(name)
	}
	return nil
}

func validateStrictFieldName(name string) error {
	if name == "" {
		return &strictFieldNameError{name: name}
	}
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == ' ':
			continue
		default:
			return &strictFieldNameError{name: name}
		}
	}
	return nil
}

type strictFieldNameError struct{ name string }

func (e *strictFieldNameError) Error() string {
	return "field name " + e.name + " does not match [A-Za-z0-9_ ]+"
}

// lookupMutable resolves a field reference against mutableFields, the map
// every expression-position field read consults (§3, §4.4 step 2).
func (s *scope) lookupMutable(name string) (value.Value, bool, error) {
	if err := s.validateName(name); err != nil {
		return value.Value{}, false, err
	}
	if !s.caseInsensitive {
		v, ok := s.mutableFields[name]
		return v, ok, nil
	}
	key := s.fieldKey(name)
	for k, v := range s.mutableFields {
		if s.fieldKey(k) == key {
			return v, true, nil
		}
	}
	return value.Value{}, false, nil
}

// lookupInput resolves a field reference against inputFields only, the map
// FieldExists queries (§3 invariant: "FieldExists queries inputFields, not
// mutableFields").
func (s *scope) lookupInput(name string) (value.Value, bool, error) {
	if err := s.validateName(name); err != nil {
		return value.Value{}, false, err
	}
	if !s.caseInsensitive {
		v, ok := s.inputFields[name]
		return v, ok, nil
	}
	key := s.fieldKey(name)
	for k, v := range s.inputFields {
		if s.fieldKey(k) == key {
			return v, true, nil
		}
	}
	return value.Value{}, false, nil
}

// setMutable records a Set assignment: mutableFields[name] = v, and marks
// name as assigned for ExecutionResult.assignments.
func (s *scope) setMutable(name string, v value.Value) {
	key := name
	if s.caseInsensitive {
		// A case-insensitive Set to an existing differently-cased key
		// overwrites that key in place rather than adding a duplicate.
		for k := range s.mutableFields {
			if s.fieldKey(k) == s.fieldKey(name) {
				key = k
				break
			}
		}
	}
	s.mutableFields[key] = v
	s.assigned[key] = struct{}{}
}

// assignments returns the subset of mutableFields actually touched by a Set
// statement, the shape ExecutionResult.assignments reports (§3, §8).
func (s *scope) assignments() map[string]value.Value {
	out := make(map[string]value.Value, len(s.assigned))
	for k := range s.assigned {
		out[k] = s.mutableFields[k]
	}
	return out
}
