package telegram

import (
	"testing"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

func TestParseRegistration(t *testing.T) {
	tests := []struct {
		name string
		args string
		want domain.Identity
	}{
		{
			name: "all fields",
			args: "Asha;a@x.com;Jaipur, India",
			want: domain.Identity{Name: "Asha", Email: "a@x.com", Location: "Jaipur, India"},
		},
		{
			name: "extra spaces",
			args: "  Ravi   Kumar ;  r@x.com ;  Pune,   India  ",
			want: domain.Identity{Name: "Ravi Kumar", Email: "r@x.com", Location: "Pune, India"},
		},
		{
			name: "semicolon in location kept",
			args: "Asha; a@x.com; Jaipur; Rajasthan",
			want: domain.Identity{Name: "Asha", Email: "a@x.com", Location: "Jaipur; Rajasthan"},
		},
		{
			name: "only name",
			args: "Asha",
			want: domain.Identity{Name: "Asha"},
		},
		{
			name: "empty",
			args: "",
			want: domain.Identity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRegistration(tt.args)
			if got != tt.want {
				t.Errorf("ParseRegistration(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseEmailArg(t *testing.T) {
	tests := map[string]string{
		"a@x.com":           "a@x.com",
		"  a@x.com  extra ": "a@x.com",
		"":                  "",
		"   ":               "",
	}

	for in, want := range tests {
		if got := ParseEmailArg(in); got != want {
			t.Errorf("ParseEmailArg(%q) = %q, want %q", in, got, want)
		}
	}
}
