package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsE164Format(t *testing.T) {
	for _, valid := range []string{
		"+12223334444",
		"+441632960961",
	} {
		assert.True(t, IsE164Format(valid))
	}

	for _, invalid := range []string{
		"",
		"12223334444",
		"+02223334444",
		"+1 222 333 4444",
	} {
		assert.False(t, IsE164Format(invalid))
	}
}

func TestIsValidNumber(t *testing.T) {
	for _, valid := range []string{
		"+12223334444",
		"01632 960961",
		"(222) 333-4444",
	} {
		assert.True(t, IsValidNumber(valid))
	}

	for _, invalid := range []string{
		"",
		"12345",
		"not a phone number",
	} {
		assert.False(t, IsValidNumber(invalid))
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "+12223334444", Sanitize(" +1 (222) 333-4444 "))
	assert.Equal(t, "01632960961", Sanitize("01632 960961"))
}
