package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCascade(t *testing.T) {
	upper := Strategy[string]{Name: "upper", Fn: func(s string) string {
		if strings.HasPrefix(s, "x") {
			return strings.ToUpper(s)
		}
		return ""
	}}
	chain := []Strategy[string]{upper, {Name: "nil"}, Const[string]("default", "none")}

	v, name := Cascade("xyz", chain...)
	assert.Equal(t, "XYZ", v)
	assert.Equal(t, "upper", name)

	v, name = Cascade("abc", chain...)
	assert.Equal(t, "none", v)
	assert.Equal(t, "default", name)

	v, name = Cascade[string]("abc")
	assert.Empty(t, v)
	assert.Empty(t, name)
}
