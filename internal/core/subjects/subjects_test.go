package subjects

import "testing"

func TestResolveCode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Data Science", "29242201"},
		{"Data Science Lab", "29242206"},
		{"Theory of Computation", "29242203"},
		{"TOC", "29242203"},
		{"29242204 Networks", "29242204"},
		{"Internship (SIP)", "SIP2XXXX"},
		{"Basket Weaving", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := ResolveCode(c.in); got != c.want {
			t.Errorf("ResolveCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("Design Patterns") {
		t.Error("Design Patterns should resolve to a whitelisted code")
	}
	if IsValid("Quantum Basket Weaving") {
		t.Error("unknown subject should not be valid")
	}
}
