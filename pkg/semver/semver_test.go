package semver_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/arthur-debert/expobridge/pkg/semver"
	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"absent", "", "0.0.0"},
		{"unset sentinel", "unspecified", "0.0.0"},
		{"two groups are padded", "1.2", "1.2.0"},
		{"single group is padded", "7", "7.0.0"},
		{"leading zeroes are dropped", "01.2.03", "1.2.3"},
		{"all zero group", "000.00.0", "0.0.0"},
		{"canonical stays canonical", "1.2.3", "1.2.3"},
		{"numeric suffix segment loses leading zeroes", "1.2.3-beta.01", "1.2.3-beta.1"},
		{"zero suffix segment", "1.2.3-beta.00", "1.2.3-beta.0"},
		{"first boundary is always a dash", "1.2.3_rc_1", "1.2.3-rc.1"},
		{"dash runs collapse to a dash", "1.2.3-rc--1", "1.2.3-rc-1"},
		{"dot runs collapse to a dot", "1.2.3-rc..1", "1.2.3-rc.1"},
		{"mixed runs become a dot", "1.2.3-rc._1", "1.2.3-rc.1"},
		{"plus becomes the pre-release marker", "1.0.0+build5", "1.0.0-build5"},
		{"fourth group moves into the suffix", "1.2.3.4", "1.2.3-4"},
		{"rc with short prefix", "12.03-rc1", "12.3.0-rc1"},
		{"snapshot", "1.3.0-SNAPSHOT", "1.3.0-SNAPSHOT"},
		{"no numeric prefix", "abc", "0.0.0abc"},
		{"separator only", "-", "0.0.0-"},
		{"blank remainder is dropped", "1.2.3   ", "1.2.3"},
		{"trailing separator is kept", "1.2.3-", "1.2.3-"},
		{"double dot after prefix", "1..2", "1.0.0-2"},
		{"dot followed by letters", "1.x", "1.0.0-x"},
		{"kotlin style", "1.3.21-eap-100", "1.3.21-eap-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, semver.Coerce(tt.input))
		})
	}
}

func TestCoerceIsIdempotent(t *testing.T) {
	fixed := []string{
		"", "unspecified", "0", "00", "1.2", "01.2.03", "1.2.3-beta.01", "1.2.3_rc_1",
		"-._+", "1.2.3.4.5.6", "1____2", "a.b.c", "1.2.3-+-+-", "...1", "v1.2.3",
		"1.2.3 -beta", "1.0-", "000001.000000.0000001-0000", "1.2.3+-._x",
		strings.Repeat("-.", 50) + "9",
	}
	for _, v := range fixed {
		once := semver.Coerce(v)
		assert.Equal(t, once, semver.Coerce(once), "input %q", v)
	}

	const alphabet = "0123456789000..__--++abcRC "
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		n := rng.Intn(16)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		v := b.String()
		once := semver.Coerce(v)
		assert.Equal(t, once, semver.Coerce(once), "input %q", v)
	}
}

func TestCoerceAlwaysHasThreeNumericGroups(t *testing.T) {
	for _, v := range []string{"", "x", "1", "1.2", "1.2.3", "1.2.3.4", "-rc"} {
		got := semver.Coerce(v)
		groups := strings.SplitN(got, ".", 3)
		if assert.Len(t, groups, 3, "coerce(%q) = %q", v, got) {
			assert.NotEmpty(t, groups[0])
			assert.NotEmpty(t, groups[1])
		}
	}
}
