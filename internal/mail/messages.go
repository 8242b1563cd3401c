package mail

import (
	"fmt"

	"github.com/valyala/bytebufferpool"

	"github.com/alshahriar/gymfit/model"
)

// SendWelcome confirms that an application was received and is awaiting
// admin review.
func SendWelcome(sender MailSender, email string, firstName string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	fmt.Fprintf(buf, "<p>Hi %s,</p>", firstName)
	fmt.Fprintf(buf, "<p>Thanks for registering. Your application is pending admin approval; you will be notified by email once it is reviewed.</p>")
	return sender.Send(&Message{
		To:      []string{email},
		Subject: "Registration received",
		Body:    buf.String(),
		IsHTML:  true,
	})
}

// SendApprovalNotice delivers the new member id, login credentials and a
// membership summary after approval.
func SendApprovalNotice(sender MailSender, member *model.Member, username string, oneTimePassword string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	fmt.Fprintf(buf, "<p>Hi %s,</p>", member.FirstName)
	fmt.Fprintf(buf, "<p>Your membership has been approved.</p>")
	fmt.Fprintf(buf, "<ul>")
	fmt.Fprintf(buf, "<li>Member ID: %s</li>", member.Code())
	fmt.Fprintf(buf, "<li>Plan: %s</li>", member.Plan)
	fmt.Fprintf(buf, "<li>Amount: %d</li>", member.Amount)
	fmt.Fprintf(buf, "<li>Valid until: %s</li>", member.ExpiryDate.Format("2006-01-02"))
	fmt.Fprintf(buf, "</ul>")
	fmt.Fprintf(buf, "<p>Login with username <b>%s</b> and one-time password <b>%s</b>. You will be asked to choose a new password on first login.</p>", username, oneTimePassword)
	return sender.Send(&Message{
		To:      []string{member.Email},
		Subject: fmt.Sprintf("Membership approved - %s", member.Code()),
		Body:    buf.String(),
		IsHTML:  true,
	})
}

// SendPasswordResetLink mails a time-limited reset link.
func SendPasswordResetLink(sender MailSender, to string, resetLink string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	fmt.Fprintf(buf, "<p>A password reset was requested for your account.</p>")
	fmt.Fprintf(buf, `<p><a href="%s">Reset your password</a></p>`, resetLink)
	fmt.Fprintf(buf, "<p>The link expires in one hour. If you did not request this, ignore this email.</p>")
	return sender.Send(&Message{
		To:      []string{to},
		Subject: "Password reset",
		Body:    buf.String(),
		IsHTML:  true,
	})
}
