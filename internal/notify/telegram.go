// Package notify delivers order notifications to the admin Telegram group.
// Delivery is best-effort: callers dispatch in the background and swallow
// failures.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/foodlavka/shop-api/internal/domain/order"
)

const defaultAPIURL = "https://api.telegram.org"

// TelegramConfig holds the bot credentials and target chat.
type TelegramConfig struct {
	APIURL      string
	BotToken    string
	ChatID      string
	BotUsername string
}

var _ order.Notifier = (*Telegram)(nil)

// Telegram sends order summaries through the Telegram bot API.
type Telegram struct {
	client *resty.Client
	cfg    TelegramConfig
	lg     *zap.Logger
}

// NewTelegram creates a Telegram notifier.
func NewTelegram(cfg TelegramConfig, lg *zap.Logger) *Telegram {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &Telegram{client: client, cfg: cfg, lg: lg}
}

// OrderCreated posts the new-order summary to the admin chat.
func (t *Telegram) OrderCreated(ctx context.Context, o *order.Order) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": t.cfg.ChatID,
			"text":    orderMessage(o),
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", t.cfg.BotToken))
	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	if resp.IsError() {
		return errors.Errorf("telegram api: status %d", resp.StatusCode())
	}

	t.lg.Debug("order notification sent", zap.String("order_id", o.ID))
	return nil
}

// orderMessage renders the admin summary: who ordered, how it is paid and
// delivered, the amount breakdown, and the item list.
func orderMessage(o *order.Order) string {
	var b strings.Builder

	b.WriteString("New order\n")
	fmt.Fprintf(&b, "Created: %s\n", o.DateCreated.Format(time.RFC3339))
	if o.CustomerUsername != "" {
		fmt.Fprintf(&b, "Customer: %s\n", o.CustomerUsername)
	}
	if o.PaymentMethod != nil {
		fmt.Fprintf(&b, "Payment: %s\n", o.PaymentMethod.Name)
	}
	if o.DeliveryMethod != nil {
		fmt.Fprintf(&b, "Delivery: %s\n", o.DeliveryMethod.Name)
		switch o.DeliveryMethod.ID {
		case "delivery":
			if o.DeliveryAddress != nil && o.CustomerID != "" {
				fmt.Fprintf(&b, "Address: %s\n", o.DeliveryAddress.AddressDisplay)
			} else if o.GuestDeliveryAddress != "" {
				fmt.Fprintf(&b, "Address: %s\n", o.GuestDeliveryAddress)
			}
		case "pickup":
			if o.PickupAddress != nil {
				fmt.Fprintf(&b, "Pickup point: %s\n", o.PickupAddress.Name)
			}
		}
	}

	if c := o.Cart; c != nil {
		fmt.Fprintf(&b, "Base amount: %d\n", c.BaseAmount)
		fmt.Fprintf(&b, "Sale discount: %d\n", c.DiscountAmount)
		fmt.Fprintf(&b, "Promo discount: %d\n", c.PromoDiscountAmount)
		fmt.Fprintf(&b, "Total: %d\n", c.TotalAmount)
		b.WriteString("Items:\n")
		for i, li := range c.LineItems {
			name := li.ProductID
			if li.Product != nil {
				name = li.Product.Name
			}
			fmt.Fprintf(&b, "%d. %s x%d\n", i+1, name, li.Quantity)
		}
	}
	return b.String()
}

// Nop is the notifier used when Telegram is not configured.
type Nop struct{}

func (Nop) OrderCreated(context.Context, *order.Order) error { return nil }
