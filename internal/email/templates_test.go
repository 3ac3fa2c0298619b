package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_Verification(t *testing.T) {
	t.Parallel()

	html, err := RenderTemplate("verification", TemplateData{
		"Name":  "Ivan",
		"Token": "tok-123",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Welcome to ResumeHub, Ivan")
	assert.Contains(t, html, "verify-email?token=tok-123")
}

func TestRenderTemplate_VerificationWithoutName(t *testing.T) {
	t.Parallel()

	html, err := RenderTemplate("verification", TemplateData{"Token": "tok-123"})
	require.NoError(t, err)

	assert.Contains(t, html, "Welcome to ResumeHub</h2>")
}

func TestRenderTemplate_PasswordReset(t *testing.T) {
	t.Parallel()

	html, err := RenderTemplate("password_reset", TemplateData{"Token": "tok-456"})
	require.NoError(t, err)

	assert.Contains(t, html, "reset-password?token=tok-456")
	assert.Contains(t, html, "expires in one hour")
}

func TestRenderTemplate_EscapesData(t *testing.T) {
	t.Parallel()

	html, err := RenderTemplate("verification", TemplateData{
		"Name":  "<script>alert(1)</script>",
		"Token": "tok",
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
}

func TestRenderTemplate_Unknown(t *testing.T) {
	t.Parallel()

	_, err := RenderTemplate("nope", TemplateData{})
	assert.ErrorContains(t, err, "unknown email template")
}
