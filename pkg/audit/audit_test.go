package audit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(AuthenticateEvent{
		UserID:   "u-1",
		Login:    "alice",
		ClientIP: "10.0.0.1",
		Success:  true,
	})

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "<86>1 "), "authpriv.info priority, got %q", line)
	assert.Contains(t, line, " authn ")
	assert.Contains(t, line, `login="alice"`)
	assert.Contains(t, line, `ip="10.0.0.1"`)
	assert.Contains(t, line, "alice successfully logged in")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestFailedAuthenticationSeverity(t *testing.T) {
	e := AuthenticateEvent{Login: "alice", ErrorMessage: "incorrect password"}
	assert.Equal(t, SeverityWarning, e.Severity())
	assert.Contains(t, e.Message(), "incorrect password")
}

func TestCheckEvent(t *testing.T) {
	denied := CheckEvent{UserID: "u-2", ResourceID: "r-1", Capability: "delete"}
	assert.Equal(t, SeverityWarning, denied.Severity())
	assert.Contains(t, denied.Message(), "may not delete")

	allowed := CheckEvent{UserID: "u-1", ResourceID: "r-1", Capability: "update", Allowed: true}
	assert.Equal(t, SeverityInfo, allowed.Severity())
	assert.Equal(t, "true", allowed.StructuredData()[SDIDAction]["allowed"])
}

func TestEscapeSDValue(t *testing.T) {
	assert.Equal(t, `"a\\b"`, escapeSDValue(`a\b`))
	assert.Equal(t, `"say \"hi\""`, escapeSDValue(`say "hi"`))
	assert.Equal(t, `"x\]y"`, escapeSDValue(`x]y`))
}
