package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want []string
	}{
		{"list", []string{"list"}},
		{"  add   buy milk  ", []string{"add", "buy", "milk"}},
		{`add "buy milk" --due 2026-10-21`, []string{"add", "buy milk", "--due", "2026-10-21"}},
		{`add 'say "hi"'`, []string{"add", `say "hi"`}},
		{`add it\'s`, []string{"add", "it's"}},
		{`filter --search ""`, []string{"filter", "--search", ""}},
		{"add\ttabbed", []string{"add", "tabbed"}},
	}

	for _, tc := range tests {
		got, err := SplitArgs(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	_, err := SplitArgs(`add "open`)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)

	_, err = SplitArgs(`add trailing\`)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)
}

func TestCompleter(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false)
	r := NewREPL(h.app)

	assert.Equal(t, []string{"login", "logout"}, r.completer("lo"))
	assert.Equal(t, []string{"undone"}, r.completer("UN"))
	assert.Nil(t, r.completer("add x"))
}
