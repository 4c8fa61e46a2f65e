package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// parseRate reads a discount rate, a decimal fraction in [0, 1].
func parseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rate %q: %w", s, err)
	}
	if rate.IsNegative() || rate.GreaterThan(one) {
		return decimal.Zero, fmt.Errorf("rate %s is outside [0, 1]", rate)
	}
	return rate, nil
}

// newValidator reports field errors by their mapstructure (config file) names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("rate", func(fl validator.FieldLevel) bool {
		_, err := parseRate(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every section and reports the first offending field.
func Validate(c *Config) error {
	if err := newValidator().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			return fmt.Errorf("invalid configuration: %s (rule: %s, value: %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
