package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "001", formatInvoiceNumber(1))
	assert.Equal(t, "042", formatInvoiceNumber(42))
	assert.Equal(t, "999", formatInvoiceNumber(999))
	assert.Equal(t, "1000", formatInvoiceNumber(1000))
	assert.Equal(t, "12345", formatInvoiceNumber(12345))
}
