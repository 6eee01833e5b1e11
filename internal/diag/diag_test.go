package diag

import "testing"

func TestStageClassifiesByCodePrefix(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"E1000", "syntax"},
		{"E3001", "type"},
		{"E9999", "unknown"},
		{"", "unknown"},
		{"X3001", "unknown"},
	}
	for _, c := range cases {
		d := Diagnostic{Code: c.code}
		if got := d.Stage(); got != c.want {
			t.Errorf("Stage(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}
