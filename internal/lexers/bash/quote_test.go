package bash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteStack_Limit(t *testing.T) {
	ps := newParamStart(defaultSpecialParameter)
	q := newQuoteStack(2, &ps)

	q.start('"', quoteString, StyleDefault, cmdStart)
	for range 4 {
		q.start('`', quoteBacktick, StyleString, cmdBody)
	}
	require.Equal(t, 2, q.depth(), "pushes past the limit are dropped")
	require.Equal(t, uint(2), q.backtickLevel)

	q.pop()
	q.pop()
	require.Equal(t, quoteString, q.current.style)
	require.Zero(t, q.backtickLevel)

	q.pop()
	require.True(t, q.empty())
}

func TestOpposite(t *testing.T) {
	require.Equal(t, ')', opposite('('))
	require.Equal(t, '}', opposite('{'))
	require.Equal(t, '"', opposite('"'))
}

func TestHereDoc_AppendUTF8(t *testing.T) {
	var h hereDoc
	h.append('E')
	h.append('é')
	require.Equal(t, "Eé", string(h.delimiter))
}
