package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/exprlang/internal/eval"
	"github.com/cwbudde/exprlang/pkg/engine"
)

// fileConfig is the YAML overlay shape accepted via --config. Every field
// is optional; an absent field leaves engine.DefaultOptions()'s value in
// place. Field names mirror the Options table in spec §6.
type fileConfig struct {
	EnableComments            *bool   `yaml:"enableComments"`
	MaxDepth                  *int    `yaml:"maxDepth"`
	MaxNodeVisits             *int    `yaml:"maxNodeVisits"`
	MaxNodes                  *int    `yaml:"maxNodes"`
	TimeoutMilliseconds       *int    `yaml:"timeoutMilliseconds"`
	EqualityCoercion          *string `yaml:"equalityCoercion"`
	StringComparison          *string `yaml:"stringComparison"`
	StringConcat              *string `yaml:"stringConcat"`
	CaseInsensitiveFieldNames *bool   `yaml:"caseInsensitiveFieldNames"`
	StrictFieldNameValidation *bool   `yaml:"strictFieldNameValidation"`
	RegexTimeoutMilliseconds  *int    `yaml:"regexTimeoutMilliseconds"`
	RoundingDigits            *int32  `yaml:"roundingDigits"`
	MidpointRounding          *string `yaml:"midpointRounding"`
	TreatNullStringAsEmpty    *bool   `yaml:"treatNullStringAsEmpty"`
	TreatNullDecimalAsZero    *bool   `yaml:"treatNullDecimalAsZero"`
	TreatNullBoolAsFalse      *bool   `yaml:"treatNullBoolAsFalse"`
	NullDateTimeDefault       *string `yaml:"nullDateTimeDefault"`
	NowUseLocalTime           *bool   `yaml:"nowUseLocalTime"`
	DateTimeFormat            *string `yaml:"dateTimeFormat"`
	EnableCompilationCache    *bool   `yaml:"enableCompilationCache"`
	CacheSize                 *int    `yaml:"cacheSize"`
}

// loadOptions builds engine.Options from engine.DefaultOptions(),
// overlaying path's YAML contents when path is non-empty.
func loadOptions(path string) (engine.Options, error) {
	opts := engine.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opts, err
	}

	if fc.EnableComments != nil {
		opts.EnableComments = *fc.EnableComments
	}
	if fc.MaxDepth != nil {
		opts.MaxDepth = *fc.MaxDepth
	}
	if fc.MaxNodeVisits != nil {
		opts.MaxNodeVisits = *fc.MaxNodeVisits
	}
	if fc.MaxNodes != nil {
		opts.MaxNodes = *fc.MaxNodes
	}
	if fc.TimeoutMilliseconds != nil {
		opts.TimeoutMilliseconds = *fc.TimeoutMilliseconds
	}
	if fc.EqualityCoercion != nil {
		coercion, err := parseEqualityCoercion(*fc.EqualityCoercion)
		if err != nil {
			return opts, err
		}
		opts.EqualityCoercion = coercion
	}
	if fc.StringComparison != nil {
		switch *fc.StringComparison {
		case "exact":
			opts.StringComparison = eval.ExactStringComparison
		case "ignoreCase":
			opts.StringComparison = eval.IgnoreCaseStringComparison
		default:
			return opts, fmt.Errorf("stringComparison: unknown value %q", *fc.StringComparison)
		}
	}
	if fc.StringConcat != nil {
		switch *fc.StringConcat {
		case "preferString":
			opts.StringConcat = eval.PreferStringIfAnyString
		case "preferNumeric":
			opts.StringConcat = eval.PreferNumericIfParsable
		default:
			return opts, fmt.Errorf("stringConcat: unknown value %q", *fc.StringConcat)
		}
	}
	if fc.CaseInsensitiveFieldNames != nil {
		opts.CaseInsensitiveFieldNames = *fc.CaseInsensitiveFieldNames
	}
	if fc.StrictFieldNameValidation != nil {
		opts.StrictFieldNameValidation = *fc.StrictFieldNameValidation
	}
	if fc.RegexTimeoutMilliseconds != nil {
		opts.RegexTimeoutMilliseconds = *fc.RegexTimeoutMilliseconds
	}
	if fc.RoundingDigits != nil {
		opts.RoundingDigits = *fc.RoundingDigits
	}
	if fc.MidpointRounding != nil {
		switch *fc.MidpointRounding {
		case "awayFromZero":
			opts.MidpointRounding = eval.RoundAwayFromZero
		case "toEven":
			opts.MidpointRounding = eval.RoundToEven
		default:
			return opts, fmt.Errorf("midpointRounding: unknown value %q", *fc.MidpointRounding)
		}
	}
	if fc.TreatNullStringAsEmpty != nil {
		opts.TreatNullStringAsEmpty = *fc.TreatNullStringAsEmpty
	}
	if fc.TreatNullDecimalAsZero != nil {
		opts.TreatNullDecimalAsZero = *fc.TreatNullDecimalAsZero
	}
	if fc.TreatNullBoolAsFalse != nil {
		opts.TreatNullBoolAsFalse = *fc.TreatNullBoolAsFalse
	}
	if fc.NullDateTimeDefault != nil {
		t, err := time.Parse(time.RFC3339, *fc.NullDateTimeDefault)
		if err != nil {
			return opts, fmt.Errorf("nullDateTimeDefault: %w", err)
		}
		opts.NullDateTimeDefault = t
	}
	if fc.NowUseLocalTime != nil {
		opts.NowUseLocalTime = *fc.NowUseLocalTime
	}
	if fc.DateTimeFormat != nil {
		opts.DateTimeFormat = *fc.DateTimeFormat
	}
	if fc.EnableCompilationCache != nil {
		opts.EnableCompilationCache = *fc.EnableCompilationCache
	}
	if fc.CacheSize != nil {
		opts.CacheSize = *fc.CacheSize
	}

	return opts, nil
}

func parseEqualityCoercion(s string) (eval.EqualityCoercion, error) {
	switch s {
	case "strict":
		return eval.Strict, nil
	case "numberFriendly":
		return eval.NumberFriendly, nil
	case "permissive":
		return eval.Permissive, nil
	case "mixedNumericOnly":
		return eval.MixedNumericOnly, nil
	}
	return 0, fmt.Errorf("equalityCoercion: unknown value %q", s)
}
