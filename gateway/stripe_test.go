package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm map[string]string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())

		gotAuth = r.Header.Get("Authorization")
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "cs_test_42", "url": "https://checkout.stripe.com/pay/cs_test_42"}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		SecretKey:  "sk_test_secret",
		BaseURL:    server.URL,
		SuccessURL: "https://clinic.test/payments/success",
		CancelURL:  "https://clinic.test/payments/cancel",
	}, zap.NewNop())

	// 19.99 has no exact float representation; the cent amount must round,
	// not truncate to 1998.
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		Amount:        19.99,
		Currency:      "USD",
		ProductName:   "Appointment with Dr. Gregory",
		AppointmentID: 7,
		PaymentID:     11,
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_42", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_42", session.URL)

	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, "payment", gotForm["mode"])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"])
	assert.Equal(t, "1999", gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "7", gotForm["metadata[appointment_id]"])
	assert.Equal(t, "11", gotForm["metadata[payment_id]"])
	assert.Equal(t, "https://clinic.test/payments/success", gotForm["success_url"])
	assert.Equal(t, "https://clinic.test/payments/cancel", gotForm["cancel_url"])
}

func TestCreateCheckoutSessionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"type": "card_error", "message": "Your card was declined."}}`))
	}))
	defer server.Close()

	client := NewClient(Config{SecretKey: "sk_test", BaseURL: server.URL}, zap.NewNop())

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		Amount:   100,
		Currency: "usd",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestCreateCheckoutSessionServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{SecretKey: "sk_test", BaseURL: server.URL}, zap.NewNop())

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		Amount:   100,
		Currency: "usd",
	})
	assert.Error(t, err)
}
