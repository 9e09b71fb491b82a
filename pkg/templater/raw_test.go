package templater

import "testing"

func TestRawTemplaterIdentity(t *testing.T) {
	cases := []string{
		"",
		"SELECT 1;\n",
		"SELECT {{ foo }} FROM {% if x %}a{% endif %}",
		"hello {name} and {{escaped}}",
		"line1\nline2\n\nline4",
	}

	tmpl := NewRawTemplater()
	for _, in := range cases {
		res, err := tmpl.Process(in, "test.sql", nil)
		if err != nil {
			t.Fatalf("raw templater failed on %q: %v", in, err)
		}
		if !res.Rendered {
			t.Errorf("raw templater should always produce output for %q", in)
		}
		if res.Text != in {
			t.Errorf("raw templater changed input: got %q, want %q", res.Text, in)
		}
		if len(res.Violations) != 0 {
			t.Errorf("raw templater emitted %d violations for %q", len(res.Violations), in)
		}
	}
}
