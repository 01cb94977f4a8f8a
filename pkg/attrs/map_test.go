package attrs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

func TestMapAdd(t *testing.T) {
	cases := []struct {
		name    string
		initial string
		prepend bool
		values  []string
		want    string
	}{
		{name: "absent name", values: []string{"a b"}, want: "a b"},
		{name: "absent name dedupes", values: []string{"a a", "b"}, want: "a b"},
		{name: "append new token", initial: "x", values: []string{"y"}, want: "x y"},
		{name: "append existing is noop", initial: "x y", values: []string{"x"}, want: "x y"},
		{name: "prepend new token", initial: "x", prepend: true, values: []string{"y"}, want: "y x"},
		{name: "prepend moves existing", initial: "x y z", prepend: true, values: []string{"z"}, want: "z x y"},
		{name: "prepend keeps relative order", initial: "x", prepend: true, values: []string{"a", "b"}, want: "a b x"},
		{name: "extra whitespace collapses", initial: " x  y ", values: []string{"\tz\n"}, want: "x y z"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := &Map{}
			if tc.initial != "" {
				if err := m.Set("class", tc.initial); err != nil {
					t.Fatalf("set: %v", err)
				}
			}
			if err := m.Add("class", tc.prepend, tc.values...); err != nil {
				t.Fatalf("add: %v", err)
			}
			if got := m.Value("class", ""); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMapAddEmptyInputIsNoop(t *testing.T) {
	m := &Map{}
	if err := m.Add("class", false, "", "   "); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.Has("class") {
		t.Fatalf("expected no attribute for empty input")
	}
}

func TestMapRemove(t *testing.T) {
	cases := []struct {
		name    string
		initial string
		policy  EmptyPolicy
		values  []string
		want    string
		present bool
	}{
		{name: "remove token", initial: "a b c", values: []string{"b"}, want: "a c", present: true},
		{name: "remove unknown token", initial: "a b", values: []string{"z"}, want: "a b", present: true},
		{name: "remove all purges", initial: "a b", values: []string{"a b"}, present: false},
		{name: "remove all keeps empty", initial: "a b", policy: KeepEmpty, values: []string{"a", "b"}, want: "", present: true},
		{name: "no values purges", initial: "a", present: false},
		{name: "no values keeps empty", initial: "a", policy: KeepEmpty, want: "", present: true},
		{name: "blank value removes nothing", initial: "a b", values: []string{" "}, want: "a b", present: true},
		{name: "empty value removes nothing", initial: "a b", values: []string{""}, want: "a b", present: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := &Map{}
			_ = m.Set("class", tc.initial)
			m.Remove("class", tc.policy, tc.values...)
			got, ok := m.Get("class")
			if ok != tc.present {
				t.Fatalf("expected present=%v, got %v", tc.present, ok)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMapRemoveMissingIsNoop(t *testing.T) {
	m := &Map{}
	m.Remove("class", Purge, "a")
	if m.Len() != 0 {
		t.Fatalf("expected empty map")
	}
}

func TestMapHasToken(t *testing.T) {
	m := &Map{}
	_ = m.Add("class", false, "Foo bar")

	if !m.HasToken("class", "", true) {
		t.Fatalf("expected empty token to check presence")
	}
	if !m.HasToken("class", "Foo", true) {
		t.Fatalf("expected exact match")
	}
	if m.HasToken("class", "foo", true) {
		t.Fatalf("did not expect case-sensitive match")
	}
	if !m.HasToken("class", "foo", false) {
		t.Fatalf("expected case-insensitive match")
	}
	if m.HasToken("class", "baz", false) {
		t.Fatalf("did not expect missing token")
	}
	if m.HasToken("id", "", true) {
		t.Fatalf("did not expect missing attribute")
	}
}

func TestMapRenderKeepsOrderAndEscapes(t *testing.T) {
	m, err := NewMap("id", "t1", "class", "a b", "title", `say "hi" <now>`, "hidden", "")
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	// NewMap drops empty token lists, so set the boolean attribute explicitly.
	_ = m.Set("hidden", "")

	want := ` id="t1" class="a b" title="say &#34;hi&#34; &lt;now&gt;" hidden`
	if got := m.String(); got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
	if diff := cmp.Diff([]string{"id", "class", "title", "hidden"}, m.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMapInvalidNames(t *testing.T) {
	m := &Map{}
	for _, name := range []string{"", "a b", `x"y`, "a=b", "<p>", "x/y"} {
		if err := m.Add(name, false, "v"); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("name %q: expected invalid argument, got %v", name, err)
		}
		if err := m.Set(name, "v"); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("set %q: expected invalid argument, got %v", name, err)
		}
	}
	if err := m.Add("data-row-id", false, "7"); err != nil {
		t.Fatalf("expected data attribute to be valid, got %v", err)
	}
}

func TestMapMergeAndClone(t *testing.T) {
	base, _ := NewMap("class", "a")
	other, _ := NewMap("class", "b a", "id", "x")

	clone := base.Clone()
	if err := base.Merge(other); err != nil {
		t.Fatalf("merge: %v", err)
	}

	want := map[string]string{"class": "a b", "id": "x"}
	if diff := cmp.Diff(want, base.All()); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if got := clone.Value("class", ""); got != "a" {
		t.Fatalf("expected clone untouched, got %q", got)
	}
}

func TestFromMapSortsNames(t *testing.T) {
	m, err := FromMap(map[string]string{"id": "x", "class": "c"})
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if got := m.String(); got != ` class="c" id="x"` {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestContainerHelpers(t *testing.T) {
	c := NewContainer()
	if err := c.AddClass("table", "striped"); err != nil {
		t.Fatalf("add class: %v", err)
	}
	c.RemoveClass("striped")
	if !c.HasClass("table") || c.HasClass("striped") {
		t.Fatalf("unexpected classes %q", c.Attribute("class", ""))
	}
	c.RemoveClass("")
	if !c.HasClass("table") {
		t.Fatalf("blank class removal must keep classes, got %q", c.Attribute("class", ""))
	}
	if err := c.SetMeta("sort", "asc"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	if got := c.Meta("sort", ""); got != "asc" {
		t.Fatalf("expected meta asc, got %q", got)
	}
	if c.Attributes().Has("sort") {
		t.Fatalf("meta must not leak into attributes")
	}
	if err := c.SetAttributes(map[string]string{"id": "t", "role": "grid"}); err != nil {
		t.Fatalf("set attributes: %v", err)
	}
	if got := c.Attributes().String(); got != ` class="table" id="t" role="grid"` {
		t.Fatalf("unexpected render %q", got)
	}
	_ = c.Data().Set("row.count", 3)
	if got := c.Data().Get("row.count", 0); got != 3 {
		t.Fatalf("expected data payload, got %v", got)
	}
}
