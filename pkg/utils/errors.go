package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrConfigValidation = errors.New("configuration validation error")
	// Wraps os/yaml errors
	ErrConfigLoad       = errors.New("failed to load configuration")
	// Wraps os errors
	ErrPatternFile      = errors.New("failed to load pattern file")
	// Per-pattern, recoverable
	ErrInvalidPattern   = errors.New("invalid regex pattern")
	ErrRequestCreation  = errors.New("failed to create HTTP request")
	ErrResponseBodyRead = errors.New("failed to read response body")
	// Charset conversion failed
	ErrBodyDecode       = errors.New("failed to decode response body")
	ErrPageTooLarge     = errors.New("page exceeds max size")
	ErrScopeViolation   = errors.New("URL out of scope (domain)")
	// Wraps specific parsing error (HTML, URL)
	ErrParsing          = errors.New("parsing error")
	// Wraps badger errors
	ErrDatabase         = errors.New("database error")
	ErrReportWrite      = errors.New("failed to write report")
)

// WrapErrorf wraps err with a formatted message. Returns nil if err is nil.
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// CategorizeError maps an error to a predefined category string for logging.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	// Check against sentinel errors first
	switch {
	case errors.Is(err, ErrScopeViolation):
		return "Policy_Scope"
	case errors.Is(err, ErrPageTooLarge):
		return "Content_TooLarge"
	case errors.Is(err, ErrBodyDecode):
		return "Content_Decode"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "URL") {
			return "Content_ParsingURL"
		}
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrInvalidPattern):
		return "Pattern_Invalid"
	case errors.Is(err, ErrDatabase):
		return "Database_Other"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		// Timeouts while streaming the body surface here too
		if isTimeout(err) {
			return "Network_Timeout"
		}
		return "Network_BodyRead"
	case errors.Is(err, ErrReportWrite):
		return "Filesystem_Report"
	case errors.Is(err, ErrPatternFile):
		if errors.Is(err, os.ErrNotExist) {
			return "Filesystem_NotExist"
		}
		return "Config_PatternFile"
	case errors.Is(err, ErrConfigLoad):
		if errors.Is(err, os.ErrNotExist) {
			return "Filesystem_NotExist"
		}
		return "Config_Load"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	// --- Fallback checks for common underlying error types/strings ---

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Network_Timeout"
	}
	if isTimeout(err) {
		return "Network_Timeout"
	}

	lowerErrMsg := strings.ToLower(err.Error())
	if strings.Contains(lowerErrMsg, "timeout") {
		return "Network_TimeoutGeneric"
	}
	if strings.Contains(lowerErrMsg, "connection refused") {
		return "Network_ConnectionRefused"
	}
	if strings.Contains(lowerErrMsg, "no such host") {
		return "Network_DNSLookup"
	}
	if strings.Contains(lowerErrMsg, "tls") || strings.Contains(lowerErrMsg, "certificate") {
		return "Network_TLS"
	}
	if strings.Contains(lowerErrMsg, "reset by peer") {
		return "Network_ConnectionReset"
	}
	if strings.Contains(lowerErrMsg, "stopped after") && strings.Contains(lowerErrMsg, "redirects") {
		return "Network_TooManyRedirects"
	}

	return "Unknown"
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
