package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodlavka/shop-api/internal/domain/cart"
	"github.com/foodlavka/shop-api/internal/domain/directory"
	"github.com/foodlavka/shop-api/internal/domain/order"
	"github.com/foodlavka/shop-api/internal/domain/product"
)

func testOrder() *order.Order {
	c := cart.New()
	li := cart.NewLineItem("p1", 2)
	li.Product = &product.Snapshot{ID: "p1", Name: "Margherita Pizza", Price: 550}
	c.LineItems = append(c.LineItems, li)
	c.BaseAmount = 1100
	c.TotalAmount = 1100

	return &order.Order{
		ID:               "ord-1",
		Cart:             c,
		CustomerUsername: "alice",
		Status:           order.StatusAwaitingConfirmation,
		PaymentMethod:    &directory.PaymentMethod{ID: "pm-cash", Name: "Cash on delivery"},
		DeliveryMethod:   &directory.DeliveryMethod{ID: "pickup", Name: "Pickup"},
		PickupAddress:    &directory.PickupAddress{ID: "pa-central", Name: "Central store"},
	}
}

func TestTelegram_OrderCreated(t *testing.T) {
	var gotPath string
	var gotChatID, gotText string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatID = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram(TelegramConfig{
		APIURL:   srv.URL,
		BotToken: "test-token",
		ChatID:   "-100500",
	}, zap.NewNop())

	require.NoError(t, tg.OrderCreated(context.Background(), testOrder()))

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "-100500", gotChatID)
	assert.Contains(t, gotText, "New order")
	assert.Contains(t, gotText, "Customer: alice")
	assert.Contains(t, gotText, "Payment: Cash on delivery")
	assert.Contains(t, gotText, "Pickup point: Central store")
	assert.Contains(t, gotText, "Margherita Pizza x2")
	assert.Contains(t, gotText, "Total: 1100")
}

func TestTelegram_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	tg := NewTelegram(TelegramConfig{APIURL: srv.URL, BotToken: "t", ChatID: "c"}, zap.NewNop())

	err := tg.OrderCreated(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestOrderMessage_GuestDeliveryAddress(t *testing.T) {
	o := testOrder()
	o.CustomerUsername = ""
	o.DeliveryMethod = &directory.DeliveryMethod{ID: "delivery", Name: "Courier delivery"}
	o.PickupAddress = nil
	o.GuestDeliveryAddress = "Main st. 5, apt 2"

	msg := orderMessage(o)
	assert.Contains(t, msg, "Address: Main st. 5, apt 2")
	assert.NotContains(t, msg, "Customer:")
}
