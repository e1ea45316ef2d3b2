package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageValidate(t *testing.T) {
	assert.NoError(t, Page{From: 0, Size: 10}.Validate())
	assert.NoError(t, Page{From: 25, Size: 1}.Validate())
	assert.ErrorIs(t, Page{From: -1, Size: 10}.Validate(), ErrNegativeFrom)
	assert.ErrorIs(t, Page{From: 0, Size: 0}.Validate(), ErrInvalidSize)
	assert.ErrorIs(t, Page{From: 0, Size: -5}.Validate(), ErrInvalidSize)
}

func TestPageWindow(t *testing.T) {
	p := Page{From: 20, Size: 5}
	assert.Equal(t, uint64(20), p.Offset())
	assert.Equal(t, uint64(5), p.Limit())
}
