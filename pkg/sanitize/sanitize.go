// Package sanitize holds the cell content transforms applied before a value
// lands in the rendered table.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Func transforms cell text.
type Func func(string) (string, error)

// Plain adapts an infallible transform.
func Plain(fn func(string) string) Func {
	return func(s string) (string, error) {
		return fn(s), nil
	}
}

// Chain applies fns in order, stopping at the first error.
func Chain(fns ...Func) Func {
	return func(s string) (string, error) {
		var err error
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if s, err = fn(s); err != nil {
				return "", err
			}
		}
		return s, nil
	}
}

// Escape converts HTML special characters into entities.
func Escape(s string) (string, error) {
	return html.EscapeString(s), nil
}

// Strict strips all markup, leaving escaped text.
func Strict(s string) (string, error) {
	return strictPolicy().Sanitize(s), nil
}

// UGC keeps the markup bluemonday considers safe for user content.
func UGC(s string) (string, error) {
	return ugcPolicy().Sanitize(s), nil
}

// Inline keeps inline formatting and links only.
func Inline(s string) (string, error) {
	return inlinePolicy().Sanitize(s), nil
}

func Upper(s string) (string, error) {
	return cases.Upper(language.Und).String(s), nil
}

func Lower(s string) (string, error) {
	return cases.Lower(language.Und).String(s), nil
}

func Title(s string) (string, error) {
	return cases.Title(language.English).String(s), nil
}

func Trim(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

var (
	policyOnce sync.Once
	strict     *bluemonday.Policy
	ugc        *bluemonday.Policy
	inline     *bluemonday.Policy
)

func initPolicies() {
	policyOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
		ugc = bluemonday.UGCPolicy()

		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "small", "mark", "span", "br")
		policy.AllowAttrs("class").OnElements("span", "code", "mark")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		inline = policy
	})
}

func strictPolicy() *bluemonday.Policy {
	initPolicies()
	return strict
}

func ugcPolicy() *bluemonday.Policy {
	initPolicies()
	return ugc
}

func inlinePolicy() *bluemonday.Policy {
	initPolicies()
	return inline
}
