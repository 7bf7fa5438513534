package judge0

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLanguageIDResolvesKnownLabels(t *testing.T) {
	cases := map[string]int{
		"c++":        54,
		"CPP":        54,
		"  Java  ":   91,
		"JavaScript": 93,
		"python3":    71,
		"typescript": 94,
	}

	for label, want := range cases {
		id, ok := LanguageID(label)
		require.True(t, ok, "expected %q to resolve", label)
		require.Equal(t, want, id)
	}
}

func TestLanguageIDFailsClosedOnUnknownLabel(t *testing.T) {
	for _, label := range []string{"brainfuck", "", "c--"} {
		_, ok := LanguageID(label)
		require.False(t, ok, "expected %q to not resolve", label)
	}
}
