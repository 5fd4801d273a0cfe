package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

// --- CategorizeError Tests ---

func TestCategorizeError_NilError(t *testing.T) {
	result := CategorizeError(nil)
	if result != "None" {
		t.Errorf("CategorizeError(nil) = %q, want %q", result, "None")
	}
}

func TestCategorizeError_SentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ScopeViolation", ErrScopeViolation, "Policy_Scope"},
		{"PageTooLarge", ErrPageTooLarge, "Content_TooLarge"},
		{"BodyDecode", ErrBodyDecode, "Content_Decode"},
		{"InvalidPattern", ErrInvalidPattern, "Pattern_Invalid"},
		{"RequestCreation", ErrRequestCreation, "Internal_RequestCreation"},
		{"ResponseBodyRead", ErrResponseBodyRead, "Network_BodyRead"},
		{"ConfigValidation", ErrConfigValidation, "Config_Validation"},
		{"ConfigLoad", ErrConfigLoad, "Config_Load"},
		{"PatternFile", ErrPatternFile, "Config_PatternFile"},
		{"Database", ErrDatabase, "Database_Other"},
		{"ReportWrite", ErrReportWrite, "Filesystem_Report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestCategorizeError_WrappedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "WrappedScopeViolation",
			err:      fmt.Errorf("redirect left seed domain: %w", ErrScopeViolation),
			expected: "Policy_Scope",
		},
		{
			name:     "DoubleWrapped",
			err:      fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrPageTooLarge)),
			expected: "Content_TooLarge",
		},
		{
			name:     "MissingConfigFile",
			err:      fmt.Errorf("%w: %w", ErrConfigLoad, os.ErrNotExist),
			expected: "Filesystem_NotExist",
		},
		{
			name:     "MissingPatternFile",
			err:      fmt.Errorf("%w: %w", ErrPatternFile, os.ErrNotExist),
			expected: "Filesystem_NotExist",
		},
		{
			name:     "HTMLParse",
			err:      fmt.Errorf("%w: parsing HTML from 'x': boom", ErrParsing),
			expected: "Content_ParsingHTML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestCategorizeError_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ContextCanceled", context.Canceled, "System_ContextCanceled"},
		{"DeadlineExceeded", fmt.Errorf("get: %w", context.DeadlineExceeded), "Network_Timeout"},
		{"ConnectionRefused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), "Network_ConnectionRefused"},
		{"DNS", errors.New("dial tcp: lookup nope.invalid: no such host"), "Network_DNSLookup"},
		{"TLS", errors.New("x509: certificate signed by unknown authority"), "Network_TLS"},
		{"Redirects", errors.New("stopped after 10 redirects"), "Network_TooManyRedirects"},
		{"Unknown", errors.New("something odd"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

// --- WrapErrorf Tests ---

func TestWrapErrorf_NilError(t *testing.T) {
	result := WrapErrorf(nil, "some context")
	if result != nil {
		t.Errorf("WrapErrorf(nil, ...) = %v, want nil", result)
	}
}

func TestWrapErrorf_WrapsError(t *testing.T) {
	original := errors.New("original error")
	wrapped := WrapErrorf(original, "context %s", "value")

	if wrapped == nil {
		t.Fatal("WrapErrorf() returned nil, want error")
	}
	if !errors.Is(wrapped, original) {
		t.Error("WrapErrorf() result should wrap original error")
	}
	expectedMsg := "context value: original error"
	if wrapped.Error() != expectedMsg {
		t.Errorf("WrapErrorf() message = %q, want %q", wrapped.Error(), expectedMsg)
	}
}
