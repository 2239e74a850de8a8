// Package validation holds the field-level rules applied to query parameter
// values before they reach a parameter store.
//
// Rules are pure predicates keyed by name. They run on a shared
// go-playground/validator instance extended with the tags this API needs.
package validation

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
)

// Rule names a field check.
type Rule string

const (
	RuleIP                    Rule = "ip"
	RuleVersion               Rule = "version"
	RuleStringOrNumeric       Rule = "stringOrNumeric"
	RuleEqualOrHigherThanZero Rule = "equalOrHigherThanZero"
	RuleIsOrderParam          Rule = "isOrderParam"
	RuleRefererFormat         Rule = "refererFormat"
	RuleShopURLFormat         Rule = "shopUrlFormat"
	RuleIsOutputAdapter       Rule = "isOutputAdapter"
	RuleShopkey               Rule = "shopkey"
)

// Func is the signature every rule satisfies.
type Func func(name string, value any) bool

var (
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:[-+.][0-9A-Za-z.+-]*)?$`)
	refererPattern = regexp.MustCompile(`^(?:https?://|www\.)`)
	shopURLPattern = regexp.MustCompile(`^https?://`)
	shopkeyPattern = regexp.MustCompile(`^[A-F0-9]{32}$`)
)

// ruleTags maps each rule onto validator tags. Rules whose value must be a
// string are marked so non-string input fails before reaching the tag.
var ruleTags = map[Rule]struct {
	tag        string
	stringOnly bool
}{
	RuleIP:                    {tag: "ip", stringOnly: true},
	RuleVersion:               {tag: "revision", stringOnly: true},
	RuleStringOrNumeric:       {tag: "string_or_numeric"},
	RuleEqualOrHigherThanZero: {tag: "integer,gte=0"},
	RuleIsOrderParam:          {tag: "order_type", stringOnly: true},
	RuleRefererFormat:         {tag: "referer", stringOnly: true},
	RuleShopURLFormat:         {tag: "shop_url", stringOnly: true},
	RuleIsOutputAdapter:       {tag: "output_adapter", stringOnly: true},
	RuleShopkey:               {tag: "shopkey", stringOnly: true},
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	mustRegister(v, "revision", func(fl validator.FieldLevel) bool {
		return versionPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "referer", func(fl validator.FieldLevel) bool {
		return refererPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "shop_url", func(fl validator.FieldLevel) bool {
		return shopURLPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "shopkey", func(fl validator.FieldLevel) bool {
		return shopkeyPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "order_type", func(fl validator.FieldLevel) bool {
		return definitions.IsOrderType(fl.Field().String())
	})
	mustRegister(v, "output_adapter", func(fl validator.FieldLevel) bool {
		return definitions.IsOutputAdapter(fl.Field().String())
	})
	mustRegister(v, "integer", func(fl validator.FieldLevel) bool {
		return isIntegerKind(fl.Field().Kind())
	})
	mustRegister(v, "string_or_numeric", func(fl validator.FieldLevel) bool {
		k := fl.Field().Kind()
		return k == reflect.String || isIntegerKind(k) || k == reflect.Float32 || k == reflect.Float64
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// Check applies rule to value. Unknown rules and nil values fail.
func Check(rule Rule, _ string, value any) bool {
	spec, ok := ruleTags[rule]
	if !ok || value == nil {
		return false
	}
	if spec.stringOnly {
		if _, isString := value.(string); !isString {
			return false
		}
	}
	return validate.Var(value, spec.tag) == nil
}

// Lookup returns the rule as a standalone predicate.
func Lookup(rule Rule) (Func, bool) {
	if _, ok := ruleTags[rule]; !ok {
		return nil, false
	}
	return func(name string, value any) bool {
		return Check(rule, name, value)
	}, true
}
