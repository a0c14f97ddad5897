package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Render produces subject, text and HTML bodies for a named template.
// Data keys are documented per template below.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		// Data: Name, Email
		subject = "Welcome aboard"
		text = fmt.Sprintf("Hi %v, your account was created successfully.", data["Name"])
		html, err = render(welcomeHTML, data)
	case "login_notification":
		// Data: Name, Email, IP, Time
		subject = "New login to your account"
		text = fmt.Sprintf("Hi %v, a new login to your account was detected from %v.", data["Name"], data["IP"])
		html, err = render(loginHTML, data)
	case "reset_password":
		// Data: Name, Email, ResetURL, ExpiresIn
		subject = "Reset your password"
		text = fmt.Sprintf("Hi %v, reset your password here: %v", data["Name"], data["ResetURL"])
		html, err = render(resetHTML, data)
	default:
		err = fmt.Errorf("unknown email template %q", name)
	}
	return subject, text, html, err
}

func render(tpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var welcomeHTML = template.Must(template.New("welcome").Parse(`
<h2>Welcome, {{.Name}}!</h2>
<p>Your account <b>{{.Email}}</b> was created successfully.</p>
<p>You can now log in and manage your profile.</p>
`))

var loginHTML = template.Must(template.New("login_notification").Parse(`
<h2>New login detected</h2>
<p>Hi {{.Name}},</p>
<p>Your account <b>{{.Email}}</b> was just used to log in.</p>
<ul>
  <li>IP address: {{.IP}}</li>
  <li>Time: {{.Time}}</li>
</ul>
<p>If this was not you, reset your password immediately.</p>
`))

var resetHTML = template.Must(template.New("reset_password").Parse(`
<h2>Password reset</h2>
<p>Hi {{.Name}},</p>
<p>We received a request to reset the password for <b>{{.Email}}</b>.</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>The link expires in {{.ExpiresIn}}.</p>
<p>If you did not request this, you can ignore this email.</p>
`))
