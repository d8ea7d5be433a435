package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())

	orig := version
	t.Cleanup(func() { version = orig })
	version = "v1.2.3"
	assert.Equal(t, "v1.2.3", GetVersion())
}

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := version, gitCommit, buildDate
	t.Cleanup(func() { version, gitCommit, buildDate = origVersion, origCommit, origDate })

	version, gitCommit, buildDate = "v1.0.0", "", ""
	assert.Equal(t, "v1.0.0", String())

	gitCommit = "abc1234"
	assert.Equal(t, "v1.0.0 (abc1234)", String())

	buildDate = "2026-01-02"
	assert.Equal(t, "v1.0.0 (abc1234, 2026-01-02)", String())
	assert.Equal(t, "abc1234", GetGitCommit())
	assert.Equal(t, "2026-01-02", GetBuildDate())
}
