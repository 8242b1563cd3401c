package mail

type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	IsHTML      bool
	Attachments []string
}

// MailSender delivers a composed message. Delivery is at-most-effort:
// callers log failures and move on, they never roll back on one.
type MailSender interface {
	Send(message *Message) error
}
