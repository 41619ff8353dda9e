package models

// Message is a single-recipient HTML email.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
