package parser_test

import (
	"io"
	"strings"
	"testing"

	"cpme_monitor/pkg/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Emits every line of the payload.
var lines = parser.Func[string](func(payload io.Reader, handler parser.HandlerFunc[string]) error {
	data, err := io.ReadAll(payload)
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		handler(line)
	}

	return nil
})

func TestFirstOf(t *testing.T) {
	var first parser.FirstOf[int]

	_, found := first.Get()
	assert.False(t, found)

	first.Handle(0)
	first.Handle(7)

	got, found := first.Get()
	assert.True(t, found)
	assert.Equal(t, 0, got)
}

func TestFirst(t *testing.T) {
	got, found, err := parser.First[string](lines, strings.NewReader("a\nb\nc"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", got)
}
