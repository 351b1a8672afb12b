package registry

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

const (
	codeMinLen = 3
	codeMaxLen = 50
	nameMinLen = 3
	nameMaxLen = 100

	defaultListLimit = 50
	maxListLimit     = 500
)

// normalizeCode trims and upcases a resource code and checks the shared
// code shape. Codes identify resources across foreign keys, so the rules
// are the same everywhere.
func normalizeCode(field, raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) < codeMinLen || len(code) > codeMaxLen {
		return "", fmt.Errorf("%w: %s must be %d..%d characters", ErrInvalidInput, field, codeMinLen, codeMaxLen)
	}
	if !codePattern.MatchString(code) {
		return "", fmt.Errorf("%w: %s must match [A-Z0-9_]+", ErrInvalidInput, field)
	}
	return code, nil
}

func normalizeName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return "", fmt.Errorf("%w: %s must be %d..%d characters", ErrInvalidInput, field, nameMinLen, nameMaxLen)
	}
	return name, nil
}

func validateURL(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s must be an http(s) URL", ErrInvalidInput, field)
	}
	return raw, nil
}

// clampList applies defaults and bounds to list parameters and restricts
// sort to a caller-supplied whitelist. An unrecognized sort falls back to
// the first allowed column rather than erroring.
func clampList(params ListParams, allowedSort ...string) ListParams {
	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	sort := strings.TrimSpace(strings.ToLower(params.Sort))
	params.Sort = allowedSort[0]
	for _, col := range allowedSort {
		if sort == col {
			params.Sort = col
			break
		}
	}
	return params
}
