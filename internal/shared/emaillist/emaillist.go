// Package emaillist parses the comma separated address lists typed into the
// leave form.
package emaillist

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsValid reports whether addr is a syntactically well formed address.
func IsValid(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}
	return validate.Var(addr, "required,email") == nil
}

// Split returns the trimmed, non-empty entries of csv in order. No validation.
func Split(csv string) []string {
	parts := strings.FieldsFunc(csv, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Normalize validates every entry of csv and re-joins the case-insensitively
// unique ones with ", ". The first invalid entry is returned as bad.
func Normalize(csv string) (normalized string, bad string, ok bool) {
	seen := make(map[string]struct{})
	kept := make([]string, 0)
	for _, addr := range Split(csv) {
		if !IsValid(addr) {
			return "", addr, false
		}
		key := strings.ToLower(addr)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, addr)
	}
	return strings.Join(kept, ", "), "", true
}

// Contains reports whether csv lists addr, ignoring case.
func Contains(csv, addr string) bool {
	for _, entry := range Split(csv) {
		if strings.EqualFold(entry, strings.TrimSpace(addr)) {
			return true
		}
	}
	return false
}

// Unique merges the lists, drops invalid addresses and keeps the first-seen
// casing of each case-insensitively distinct address.
func Unique(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, addr := range list {
			addr = strings.TrimSpace(addr)
			if !IsValid(addr) {
				continue
			}
			key := strings.ToLower(addr)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}
