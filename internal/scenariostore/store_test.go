package scenariostore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"home", "home-v2", "checkout.step_1", "A1"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "-home", "a/b", "with space", "ünï", strings.Repeat("x", 129)} {
		assert.Error(t, ValidateName(bad), bad)
	}
}
