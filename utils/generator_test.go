package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomMeetingCode(t *testing.T) {
	seededRand := rand.New(rand.NewSource(1))

	code := randomMeetingCode(seededRand)

	assert.Len(t, code, meetingCodeLength)
	for _, r := range code {
		assert.Contains(t, letterBytes, string(r))
	}

	// Distinct draws from the same source should not repeat immediately.
	assert.NotEqual(t, code, randomMeetingCode(seededRand))
}
