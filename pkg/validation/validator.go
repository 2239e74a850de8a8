package validation

type fieldRule struct {
	rule   Rule
	fields []string
}

// Validator checks a set of named values against a list of rules. Every
// rule is evaluated, so Failed reports all offending fields at once.
type Validator struct {
	values map[string]any
	rules  []fieldRule
	failed []string
}

// New returns a Validator over values.
func New(values map[string]any) *Validator {
	return &Validator{values: values}
}

// Rule registers rule for each of fields.
func (v *Validator) Rule(rule Rule, fields ...string) *Validator {
	v.rules = append(v.rules, fieldRule{rule: rule, fields: fields})
	return v
}

// Validate runs all registered rules and reports whether all of them passed.
// A field missing from the value map fails its rule.
func (v *Validator) Validate() bool {
	v.failed = v.failed[:0]
	seen := make(map[string]struct{})
	for _, r := range v.rules {
		for _, field := range r.fields {
			value, ok := v.values[field]
			if ok && Check(r.rule, field, value) {
				continue
			}
			if _, dup := seen[field]; dup {
				continue
			}
			seen[field] = struct{}{}
			v.failed = append(v.failed, field)
		}
	}
	return len(v.failed) == 0
}

// Failed returns the fields that failed during the last Validate call.
func (v *Validator) Failed() []string {
	return append([]string(nil), v.failed...)
}

// Single validates one value against one rule.
func Single(rule Rule, field string, value any) bool {
	return New(map[string]any{field: value}).Rule(rule, field).Validate()
}
