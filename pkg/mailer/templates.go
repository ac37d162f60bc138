package mailer

import (
	"fmt"
	"html"
	"time"
)

func CredentialsEmail(to, firstName, userID, password string) Message {
	return Message{
		To:      to,
		Subject: "Your account has been approved",
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your registration was approved.</p><p>User ID: <b>%s</b><br>Password: <b>%s</b></p><p>Please change your password after signing in.</p>",
			html.EscapeString(firstName), html.EscapeString(userID), html.EscapeString(password),
		),
	}
}

func DeclinedEmail(to, firstName, reason string) Message {
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your registration request was declined.</p>", html.EscapeString(firstName))
	if reason != "" {
		body += fmt.Sprintf("<p>Reason: %s</p>", html.EscapeString(reason))
	}
	return Message{To: to, Subject: "Registration request declined", HTML: body}
}

func PasscodeEmail(to, code string, validFor time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Password reset code",
		HTML: fmt.Sprintf(
			"<p>Your password reset code is <b>%s</b>.</p><p>It expires in %d minutes.</p>",
			html.EscapeString(code), int(validFor.Minutes()),
		),
	}
}

func PasswordChangedEmail(to string) Message {
	return Message{
		To:      to,
		Subject: "Your password was changed",
		HTML:    "<p>Your password was reset. If this was not you, contact an administrator.</p>",
	}
}
