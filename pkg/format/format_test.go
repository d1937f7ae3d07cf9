package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", TitleName("ada LOVELACE"))
	assert.Equal(t, "Grace", TitleName("  grace "))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1.5K", FormatNumber(1_500))
	assert.Equal(t, "2.0M", FormatNumber(2_000_000))
	assert.Equal(t, "0", FormatNumber(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 75))
	long := strings.Repeat("a", 80)
	got := Truncate(long, 75)
	assert.Len(t, got, 78)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, "1 Min Read", ReadingTime("just a few words"))
	assert.Equal(t, "3 Mins Read", ReadingTime(strings.Repeat("word ", 500)))

	withImage := "data:image/png;base64,AAAA " + strings.Repeat("word ", 150)
	assert.Equal(t, "1 Min Read", ReadingTime(withImage))
}
