// internal/pkg/email/types.go
package email

// Type represents the kind of email being sent
type Type string

const (
	TypeOrderConfirmation Type = "order_confirmation"
	TypeOrderAdminAlert   Type = "order_admin_alert"
	TypeOrderStatusUpdate Type = "order_status_update"
	TypeContactInquiry    Type = "contact_inquiry"
)

// Email represents an outbound message
type Email struct {
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	HTMLContent string   `json:"html_content"`
	Type        Type     `json:"type"`
}

// Sender delivers emails. The SMTP implementation is the production one;
// tests substitute a recording fake.
type Sender interface {
	Send(email *Email) error
}
