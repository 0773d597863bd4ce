package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

const (
	red   color = "red"
	green color = "green"
)

func newColors() *Enum[color] {
	return NewEnum("color", map[string]color{"red": red, "Green": green, "verde": green}, red)
}

func TestEnum_Normalize(t *testing.T) {
	e := newColors()

	tests := []struct {
		input string
		want  color
	}{
		{"red", red},
		{"  GREEN ", green},
		{"verde", green},
		{"blue", red},
		{"", red},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Normalize(tt.input), tt.input)
	}
}

func TestEnum_Parse(t *testing.T) {
	e := newColors()

	v, err := e.Parse("Red")
	require.NoError(t, err)
	assert.Equal(t, red, v)

	_, err = e.Parse("blue")
	require.Error(t, err)
	assert.Equal(t, `invalid color "blue", valid options: green|red|verde`, err.Error())

	_, ok := e.Lookup("blue")
	assert.False(t, ok)
	assert.Equal(t, []string{"green", "red", "verde"}, e.Keys())
}
