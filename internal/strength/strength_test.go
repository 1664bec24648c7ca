package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate_WeakVersusStrong(t *testing.T) {
	weak := Estimate("password")
	strong := Estimate("kV9#mTz2$wQp7&Lx")

	assert.Less(t, weak.Score, strong.Score)
	assert.Less(t, weak.Entropy, strong.Entropy)
	assert.NotEmpty(t, strong.CrackTimeDisplay)
}

func TestEstimate_UserInputsPenalized(t *testing.T) {
	without := Estimate("example.com2024")
	with := Estimate("example.com2024", "example.com")

	assert.LessOrEqual(t, with.Score, without.Score)
}
