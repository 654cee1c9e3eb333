package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"id": 1}))
	require.Equal(t, "{\n\t\"id\": 1\n}\n", buf.String())

	require.Error(t, WriteJSON(&buf, make(chan int)))
}
