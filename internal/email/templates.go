package email

import (
	"fmt"
	"html/template"
	"strings"
)

var builtinTemplates = map[string]string{
	"verification": `
<html>
<body>
  <h2>Welcome to ResumeHub{{if .Name}}, {{.Name}}{{end}}</h2>
  <p>Please confirm your email address to activate your account.</p>
  <p><a href="https://app.resumehub.io/verify-email?token={{.Token}}">Verify email</a></p>
  <p>If you did not create an account, you can ignore this message.</p>
</body>
</html>`,

	"password_reset": `
<html>
<body>
  <h2>Password reset</h2>
  <p>We received a request to reset your ResumeHub password.</p>
  <p><a href="https://app.resumehub.io/reset-password?token={{.Token}}">Reset password</a></p>
  <p>The link expires in one hour. If you did not request a reset, ignore this message.</p>
</body>
</html>`,
}

// RenderTemplate рендерит встроенный шаблон письма
func RenderTemplate(name string, data TemplateData) (string, error) {
	raw, ok := builtinTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}
