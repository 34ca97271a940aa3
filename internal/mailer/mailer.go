package mailer

// Attachment is an in-memory file attached to an outgoing mail, such as a
// rendered ticket PDF.
type Attachment struct {
	Name    string
	Content []byte
}

type Mailer interface {
	Send(recipient, templateFile string, data any) error
	SendWithAttachments(recipient, templateFile string, data any, attachments ...Attachment) error
}
