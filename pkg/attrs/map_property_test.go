package attrs

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMapMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	tokens := gen.SliceOfN(4, gen.RegexMatch(`^[a-z]{1,6}$`))
	token := gen.RegexMatch(`^[a-z]{1,6}$`)

	properties.Property("append of a present token is idempotent", prop.ForAll(
		func(initial []string, tok string) bool {
			m := &Map{}
			_ = m.Add("class", false, initial...)
			_ = m.Add("class", false, tok)
			once := m.Value("class", "")
			_ = m.Add("class", false, tok)
			return m.Value("class", "") == once
		},
		tokens, token,
	))

	properties.Property("prepend leaves the token first", prop.ForAll(
		func(initial []string, tok string) bool {
			m := &Map{}
			_ = m.Add("class", false, initial...)
			_ = m.Add("class", true, tok)
			got := m.Tokens("class")
			return len(got) > 0 && got[0] == tok
		},
		tokens, token,
	))

	properties.Property("remove then add restores membership", prop.ForAll(
		func(initial []string, tok string) bool {
			m := &Map{}
			_ = m.Add("class", false, initial...)
			m.Remove("class", Purge, tok)
			if m.HasToken("class", tok, true) {
				return false
			}
			_ = m.Add("class", false, tok)
			return m.HasToken("class", tok, true)
		},
		tokens, token,
	))

	properties.Property("tokens stay unique", prop.ForAll(
		func(first, second []string, prepend bool) bool {
			m := &Map{}
			_ = m.Add("class", false, first...)
			_ = m.Add("class", prepend, second...)
			seen := map[string]bool{}
			for _, tok := range strings.Fields(m.Value("class", "")) {
				if seen[tok] {
					return false
				}
				seen[tok] = true
			}
			return true
		},
		tokens, tokens, gen.Bool(),
	))

	properties.TestingRun(t)
}
