package pointing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp8Saturates(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int8(127), clamp8(200))
	assert.Equal(int8(-127), clamp8(-200))
	assert.Equal(int8(42), clamp8(42))
	assert.Equal(int8(127), clamp8(127))
	assert.Equal(int8(-127), clamp8(-127))
}

func TestHandleButtonsTogglesBit(t *testing.T) {
	assert := assert.New(t)

	mask := uint8(0)
	mask = handleButtons(mask, true, Button1)
	assert.Equal(uint8(1), mask)

	mask = handleButtons(mask, true, Button2)
	assert.Equal(uint8(0b011), mask)

	mask = handleButtons(mask, false, Button1)
	assert.Equal(uint8(0b010), mask)
}
