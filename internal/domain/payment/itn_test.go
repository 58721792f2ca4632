package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dk-code-insights/storefront/internal/domain/order"
)

func TestParseNotification(t *testing.T) {
	body := []byte("m_payment_id=" + testOrderID + "&pf_payment_id=1089250&payment_status=COMPLETE&item_name=Basic+Website+x1&amount_gross=1000.00&signature=abc")

	n, err := ParseNotification(body)
	require.NoError(t, err)
	assert.Equal(t, testOrderID, n.OrderID)
	assert.Equal(t, "1089250", n.PfPaymentID)
	assert.Equal(t, "COMPLETE", n.PaymentStatus)
	assert.Equal(t, "1000.00", n.AmountGross)
	assert.Equal(t, order.OrderStatusPaid, n.Status())
}

func TestParseNotificationEmptyAndMalformed(t *testing.T) {
	n, err := ParseNotification(nil)
	require.NoError(t, err)
	assert.Empty(t, n.OrderID)

	_, err = ParseNotification([]byte("m_payment_id=%zz"))
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, order.OrderStatusPaid, MapStatus("COMPLETE"))
	for _, s := range []string{"FAILED", "CANCELLED", "PENDING", "complete", ""} {
		assert.Equal(t, order.OrderStatusPaymentFailed, MapStatus(s), s)
	}
}

func TestVerifyNotification(t *testing.T) {
	g := testGateway("salt")
	payload := "m_payment_id=" + testOrderID + "&pf_payment_id=1&payment_status=COMPLETE&name_last=&item_name=Basic+Website+x1"
	sig := md5Of(payload + "&passphrase=salt")

	n, err := ParseNotification([]byte(payload + "&signature=" + sig))
	require.NoError(t, err)
	assert.True(t, g.VerifyNotification(n))

	tampered, err := ParseNotification([]byte("m_payment_id=" + testOrderID + "&pf_payment_id=1&payment_status=FAILED&name_last=&item_name=Basic+Website+x1&signature=" + sig))
	require.NoError(t, err)
	assert.False(t, g.VerifyNotification(tampered))

	unsigned, err := ParseNotification([]byte(payload))
	require.NoError(t, err)
	assert.False(t, g.VerifyNotification(unsigned))
}
