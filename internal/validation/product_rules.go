package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"katalog/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Product request fields.
const (
	FieldProductName  = "product_name"
	FieldDescription  = "description"
	FieldProductPrice = "product_price"
	FieldStock        = "stock"
)

// Rule names, used as the second half of message keys.
const (
	RuleRequired = "required"
	RuleString   = "string"
	RuleNumeric  = "numeric"
	RuleInteger  = "integer"
	RuleMax      = "max"
	RuleMin      = "min"
	RuleUnique   = "unique"
)

// MaxProductPrice is the largest price a decimal(12,2) column holds.
const MaxProductPrice = "9999999999.99"

// priceScale is the number of decimals a stored price keeps.
const priceScale = 2

// maxExponent bounds the exponent of numeric input. Scaling a decimal with a
// larger exponent allocates a power of ten of that many digits.
const maxExponent = 1000

type valueKind int

const (
	kindString valueKind = iota
	kindNumeric
	kindInteger
)

// bound is a rule checked by a validator tag once the value has its type.
type bound struct {
	rule string
	tag  string
}

type fieldSpec struct {
	name     string
	required bool
	kind     valueKind
	bounds   []bound
	unique   bool
}

var productFields = []fieldSpec{
	{
		name:     FieldProductName,
		required: true,
		kind:     kindString,
		bounds:   []bound{{RuleMax, "max=255"}},
		unique:   true,
	},
	{
		name: FieldDescription,
		kind: kindString,
	},
	{
		name:     FieldProductPrice,
		required: true,
		kind:     kindNumeric,
		bounds:   []bound{{RuleMin, "min=0"}, {RuleMax, "max=" + MaxProductPrice}},
	},
	{
		name:     FieldStock,
		required: true,
		kind:     kindInteger,
		bounds:   []bound{{RuleMin, "min=0"}},
	},
}

// NameChecker reports whether a product other than exceptID already uses
// name. An empty exceptID excludes nothing.
type NameChecker interface {
	ExistsByName(ctx context.Context, name, exceptID string) (bool, error)
}

// ProductValidator applies the product rule set to raw request fields.
type ProductValidator struct {
	validate *validator.Validate
	names    NameChecker
}

// NewProductValidator creates a ProductValidator. names may be nil, in which
// case the unique rule is not checked.
func NewProductValidator(names NameChecker) *ProductValidator {
	v := validator.New()
	// Decimals reach numeric tags such as min as float64.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Registration only fails on empty or reserved tag names.
	_ = v.RegisterValidation("is_string", isString)
	_ = v.RegisterValidation("is_numeric", isNumeric)
	_ = v.RegisterValidation("is_integer", isInteger)

	return &ProductValidator{validate: v, names: names}
}

// Validate checks raw against the product rules. exceptID is the id of the
// product being updated, or empty on create. It returns the normalized input,
// a *Errors when any rule failed, or the error of the uniqueness lookup.
func (pv *ProductValidator) Validate(ctx context.Context, raw map[string]interface{}, exceptID string) (models.ProductInput, error) {
	var input models.ProductInput
	errs := &Errors{}

	for _, field := range productFields {
		value, present := raw[field.name]
		value = normalize(value)

		if value == nil {
			if field.required {
				errs.Add(field.name, RuleRequired)
			}
			if field.name == FieldDescription && present {
				input.HasDescription = true
			}
			continue
		}

		typed, ok := pv.checkKind(field.kind, value)
		if !ok {
			errs.Add(field.name, kindRule(field.kind))
			continue
		}

		for _, b := range field.bounds {
			if err := pv.validate.Var(typed, b.tag); err != nil {
				errs.Add(field.name, b.rule)
			}
		}

		if field.unique && pv.names != nil {
			taken, err := pv.names.ExistsByName(ctx, typed.(string), exceptID)
			if err != nil {
				return models.ProductInput{}, fmt.Errorf("failed to check %s uniqueness: %w", field.name, err)
			}
			if taken {
				errs.Add(field.name, RuleUnique)
			}
		}

		assign(&input, field.name, typed)
	}

	if !errs.Empty() {
		return models.ProductInput{}, errs
	}
	return input, nil
}

// checkKind runs the type rule and converts value to the Go type later rules
// and the model expect.
func (pv *ProductValidator) checkKind(kind valueKind, value interface{}) (interface{}, bool) {
	switch kind {
	case kindString:
		if pv.validate.Var(value, "is_string") != nil {
			return nil, false
		}
		return value.(string), true
	case kindNumeric:
		if pv.validate.Var(value, "is_numeric") != nil {
			return nil, false
		}
		d, err := toDecimal(value)
		if err != nil {
			return nil, false
		}
		return d, true
	case kindInteger:
		if pv.validate.Var(value, "is_integer") != nil {
			return nil, false
		}
		n, err := toInt(value)
		if err != nil {
			return nil, false
		}
		return n, true
	}
	return nil, false
}

func kindRule(kind valueKind) string {
	switch kind {
	case kindNumeric:
		return RuleNumeric
	case kindInteger:
		return RuleInteger
	default:
		return RuleString
	}
}

func assign(input *models.ProductInput, field string, value interface{}) {
	switch field {
	case FieldProductName:
		input.ProductName = value.(string)
	case FieldDescription:
		s := value.(string)
		input.Description = &s
		input.HasDescription = true
	case FieldProductPrice:
		input.ProductPrice = value.(decimal.Decimal).Round(priceScale)
	case FieldStock:
		input.Stock = value.(int)
	}
}

// normalize trims strings and turns empty strings into nil, the way form
// and JSON input are treated alike.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		return v
	case json.Number:
		return json.Number(strings.TrimSpace(string(v)))
	}
	return value
}

func isString(fl validator.FieldLevel) bool {
	_, ok := fl.Field().Interface().(string)
	return ok
}

// isNumeric accepts numbers and numeric strings, including exponent and
// leading-dot forms such as "1e3" and ".5".
func isNumeric(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.String:
		d, err := decimal.NewFromString(field.String())
		if err != nil {
			return false
		}
		exp := d.Exponent()
		return exp >= -maxExponent && exp <= maxExponent
	}
	return false
}

func isInteger(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f) && !math.IsInf(f, 0)
	case reflect.String:
		_, err := strconv.ParseInt(field.String(), 10, 64)
		return err == nil
	}
	return false
}

func toDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case json.Number:
		return decimal.NewFromString(string(v))
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return decimal.Decimal{}, fmt.Errorf("unsupported numeric type %T", value)
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case json.Number:
		n, err := strconv.ParseInt(string(v), 10, 64)
		return int(n), err
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return int(n), err
	case float64:
		if v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("integer %v out of range", v)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	}
	return 0, fmt.Errorf("unsupported integer type %T", value)
}
