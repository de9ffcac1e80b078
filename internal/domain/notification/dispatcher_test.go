// internal/domain/notification/dispatcher_test.go
package notification

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/order"
	"github.com/your-org/bakery-backend/internal/pkg/email"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []*email.Email
	failFor map[email.Type]bool
}

func (f *fakeSender) Send(msg *email.Email) error {
	if f.failFor[msg.Type] {
		return errors.New("smtp unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func newTestDispatcher(sender email.Sender) *Dispatcher {
	cfg := &config.Config{}
	cfg.App.Name = "Rosewood Bakery"
	cfg.Store.AdminEmail = "owner@rosewood.example"
	cfg.Store.BaseURL = "https://rosewood.example"

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewDispatcher(sender, cfg, log)
}

func sampleOrder() *order.Order {
	return &order.Order{
		ID:            "ord-1",
		CustomerName:  "Robin",
		CustomerEmail: "robin@example.com",
		Status:        order.StatusPlaced,
		DeliveryFee:   500,
		Total:         3000,
		Items: []order.OrderItem{
			{
				Quantity:  1,
				UnitPrice: 2500,
				LineTotal: 2500,
				AddOns: []order.OrderItemAddOn{
					{AddOnName: "Gold Candles", AddOnPrice: 300},
				},
			},
		},
	}
}

func TestNotifyOrderPlacedSendsBothEmails(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender)

	ok := d.NotifyOrderPlaced(sampleOrder())
	require.True(t, ok)
	require.Len(t, sender.sent, 2)

	recipients := map[string]bool{}
	for _, msg := range sender.sent {
		recipients[msg.To[0]] = true
		// Add-on snapshot names and the formatted amounts appear in the
		// rendered bodies.
		require.Contains(t, msg.HTMLContent, "Gold Candles")
		require.Contains(t, msg.HTMLContent, "$30.00")
		require.Contains(t, msg.HTMLContent, "$5.00")
	}
	require.True(t, recipients["robin@example.com"])
	require.True(t, recipients["owner@rosewood.example"])
}

func TestNotifyOrderPlacedPartialFailureStillSucceeds(t *testing.T) {
	sender := &fakeSender{failFor: map[email.Type]bool{email.TypeOrderAdminAlert: true}}
	d := newTestDispatcher(sender)

	ok := d.NotifyOrderPlaced(sampleOrder())
	require.True(t, ok)
	require.Len(t, sender.sent, 1)
	require.Equal(t, "robin@example.com", sender.sent[0].To[0])
}

func TestNotifyOrderPlacedTotalFailure(t *testing.T) {
	sender := &fakeSender{failFor: map[email.Type]bool{
		email.TypeOrderAdminAlert:   true,
		email.TypeOrderConfirmation: true,
	}}
	d := newTestDispatcher(sender)

	ok := d.NotifyOrderPlaced(sampleOrder())
	require.False(t, ok)
	require.Empty(t, sender.sent)
}

func TestNotifyStatusChanged(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender)

	o := sampleOrder()
	o.Status = order.StatusDelivered

	ok := d.NotifyStatusChanged(o)
	require.True(t, ok)
	require.Len(t, sender.sent, 1)
	require.Contains(t, sender.sent[0].Subject, "delivered")
	require.Contains(t, sender.sent[0].HTMLContent, "delivered")
}

func TestNotifyContactInquiry(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender)

	ok := d.NotifyContactInquiry("Sam", "sam@example.com", "Do you make gluten free cakes?")
	require.True(t, ok)
	require.Len(t, sender.sent, 1)
	require.Equal(t, "owner@rosewood.example", sender.sent[0].To[0])
	require.Contains(t, sender.sent[0].HTMLContent, "gluten free")
}
