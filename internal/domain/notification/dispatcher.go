// internal/domain/notification/dispatcher.go
package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/order"
	"github.com/your-org/bakery-backend/internal/pkg/email"
	"golang.org/x/sync/errgroup"
)

// Dispatcher turns store events into emails. Every send is best effort:
// failures are logged and reported through the boolean result, never as
// errors that could reach an order workflow.
type Dispatcher struct {
	sender    email.Sender
	config    *config.Config
	log       *logrus.Logger
	templates map[string]*template.Template
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(sender email.Sender, cfg *config.Config, log *logrus.Logger) *Dispatcher {
	d := &Dispatcher{
		sender:    sender,
		config:    cfg,
		log:       log,
		templates: make(map[string]*template.Template),
	}
	d.loadTemplates()
	return d
}

type orderEmailData struct {
	SiteName     string
	CustomerName string
	OrderID      string
	Status       string
	Items        []orderEmailItem
	DeliveryFee  string
	Total        string
	OrderURL     string
}

type orderEmailItem struct {
	Name      string
	Quantity  int
	LineTotal string
	AddOns    []string
}

type contactEmailData struct {
	SiteName string
	Name     string
	Email    string
	Message  string
}

// NotifyOrderPlaced sends the customer confirmation and the admin alert in
// parallel. Either leg succeeding counts as success.
func (d *Dispatcher) NotifyOrderPlaced(o *order.Order) bool {
	data := d.buildOrderData(o)

	var g errgroup.Group
	results := make([]bool, 2)

	g.Go(func() error {
		results[0] = d.send(&email.Email{
			To:      []string{o.CustomerEmail},
			Subject: fmt.Sprintf("Order received - %s", o.ID),
			Type:    email.TypeOrderConfirmation,
		}, "order_confirmation", data)
		return nil
	})
	g.Go(func() error {
		results[1] = d.send(&email.Email{
			To:      []string{d.config.Store.AdminEmail},
			Subject: fmt.Sprintf("New order from %s", o.CustomerName),
			Type:    email.TypeOrderAdminAlert,
		}, "order_admin_alert", data)
		return nil
	})
	g.Wait()

	return results[0] || results[1]
}

// NotifyStatusChanged emails the customer about the new order status
func (d *Dispatcher) NotifyStatusChanged(o *order.Order) bool {
	data := d.buildOrderData(o)
	return d.send(&email.Email{
		To:      []string{o.CustomerEmail},
		Subject: fmt.Sprintf("Your order is now %s", o.Status),
		Type:    email.TypeOrderStatusUpdate,
	}, "order_status_update", data)
}

// NotifyContactInquiry forwards a contact form submission to the store admin
func (d *Dispatcher) NotifyContactInquiry(name, fromEmail, message string) bool {
	return d.send(&email.Email{
		To:      []string{d.config.Store.AdminEmail},
		Subject: fmt.Sprintf("Contact inquiry from %s", name),
		Type:    email.TypeContactInquiry,
	}, "contact_inquiry", contactEmailData{
		SiteName: d.config.App.Name,
		Name:     name,
		Email:    fromEmail,
		Message:  message,
	})
}

// send renders the named template into the email and delivers it, logging
// and swallowing any failure.
func (d *Dispatcher) send(msg *email.Email, templateName string, data interface{}) bool {
	tmpl, ok := d.templates[templateName]
	if !ok {
		d.log.WithField("template", templateName).Error("unknown email template")
		return false
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		d.log.WithFields(logrus.Fields{
			"template": templateName,
			"error":    err,
		}).Error("failed to render email")
		return false
	}
	msg.HTMLContent = body.String()

	if err := d.sender.Send(msg); err != nil {
		d.log.WithFields(logrus.Fields{
			"type":      msg.Type,
			"recipient": msg.To,
			"error":     err,
		}).Warn("failed to send email")
		return false
	}

	d.log.WithFields(logrus.Fields{
		"type":      msg.Type,
		"recipient": msg.To,
	}).Info("email sent")
	return true
}

func (d *Dispatcher) buildOrderData(o *order.Order) orderEmailData {
	data := orderEmailData{
		SiteName:     d.config.App.Name,
		CustomerName: o.CustomerName,
		OrderID:      o.ID,
		Status:       string(o.Status),
		DeliveryFee:  formatPrice(o.DeliveryFee),
		Total:        formatPrice(o.Total),
		OrderURL:     fmt.Sprintf("%s/orders/%s", d.config.Store.BaseURL, o.ID),
	}

	for _, item := range o.Items {
		line := orderEmailItem{
			Quantity:  item.Quantity,
			LineTotal: formatPrice(item.LineTotal),
		}
		if item.Product != nil {
			line.Name = item.Product.Name
		}
		// Render from the snapshot columns so deleted add-ons still show.
		for _, addOn := range item.AddOns {
			line.AddOns = append(line.AddOns,
				fmt.Sprintf("%s (+%s)", addOn.AddOnName, formatPrice(addOn.AddOnPrice)))
		}
		data.Items = append(data.Items, line)
	}
	return data
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func (d *Dispatcher) loadTemplates() {
	for name, body := range builtinTemplates {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"template": name,
				"error":    err,
			}).Error("failed to parse email template")
			continue
		}
		d.templates[name] = tmpl
	}
}

var builtinTemplates = map[string]string{
	"order_confirmation": `
<h2>Thank you for your order, {{.CustomerName}}!</h2>
<p>We have received order <strong>{{.OrderID}}</strong> and will start working on it shortly.</p>
<ul>
{{range .Items}}<li>{{.Quantity}} x {{.Name}} - {{.LineTotal}}{{if .AddOns}}<ul>{{range .AddOns}}<li>{{.}}</li>{{end}}</ul>{{end}}</li>
{{end}}</ul>
<p>Delivery: {{.DeliveryFee}}<br>Total: <strong>{{.Total}}</strong></p>
<p><a href="{{.OrderURL}}">View your order</a></p>
<p>{{.SiteName}}</p>`,

	"order_admin_alert": `
<h2>New order placed</h2>
<p>{{.CustomerName}} placed order <strong>{{.OrderID}}</strong> for {{.Total}}.</p>
<ul>
{{range .Items}}<li>{{.Quantity}} x {{.Name}} - {{.LineTotal}}{{if .AddOns}}<ul>{{range .AddOns}}<li>{{.}}</li>{{end}}</ul>{{end}}</li>
{{end}}</ul>
<p>Delivery: {{.DeliveryFee}}</p>
<p><a href="{{.OrderURL}}">Open in the back office</a></p>`,

	"order_status_update": `
<h2>Order update</h2>
<p>Hi {{.CustomerName}}, your order <strong>{{.OrderID}}</strong> is now <strong>{{.Status}}</strong>.</p>
<p><a href="{{.OrderURL}}">View your order</a></p>
<p>{{.SiteName}}</p>`,

	"contact_inquiry": `
<h2>Contact inquiry</h2>
<p><strong>{{.Name}}</strong> ({{.Email}}) wrote:</p>
<blockquote>{{.Message}}</blockquote>`,
}
