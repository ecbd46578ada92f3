package jsonstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionLineCol(t *testing.T) {
	var pos position

	line, col := pos.lineCol(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)

	pos.newline(5) // byte at offset 5 is '\n'
	line, col = pos.lineCol(6)
	assert.Equal(t, 2, line)
	assert.Equal(t, 0, col)

	line, col = pos.lineCol(9)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
}

func TestPositionMultipleNewlines(t *testing.T) {
	var pos position
	pos.newline(2)
	pos.newline(7)

	line, col := pos.lineCol(10)
	assert.Equal(t, 3, line)
	assert.Equal(t, 2, col)
}

func TestPositionClone(t *testing.T) {
	var pos position
	pos.newline(3)

	clone := pos.clone()
	clone.newline(8)

	line, _ := pos.lineCol(4)
	assert.Equal(t, 2, line)

	line, _ = clone.lineCol(9)
	assert.Equal(t, 3, line)
}
