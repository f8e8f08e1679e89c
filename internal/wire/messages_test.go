package wire

import (
	"testing"

	"matchbook/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderRoundTrip(t *testing.T) {
	payload := EncodeNewOrder(engine.Equities, engine.GoodTillCancel, engine.Buy, 101, 5)
	req, err := ParseRequest(payload)
	require.NoError(t, err)

	order, ok := req.(NewOrderRequest)
	require.True(t, ok)
	assert.Equal(t, engine.Equities, order.Asset)
	assert.Equal(t, engine.GoodTillCancel, order.OrderType)
	assert.Equal(t, engine.Buy, order.Side)
	assert.EqualValues(t, 101, order.Price)
	assert.EqualValues(t, 5, order.Quantity)
	assert.NotZero(t, order.RequestID())
}

func TestCancelOrderRoundTrip(t *testing.T) {
	payload := EncodeCancelOrder(engine.Equities, 42)
	req, err := ParseRequest(payload)
	require.NoError(t, err)

	cancel, ok := req.(CancelOrderRequest)
	require.True(t, ok)
	assert.EqualValues(t, 42, cancel.OrderID)
}

func TestModifyOrderRoundTripOnlySetFieldsPopulated(t *testing.T) {
	price := int32(150)
	payload := EncodeModifyOrder(engine.Equities, 7, engine.Modification{Price: &price})
	req, err := ParseRequest(payload)
	require.NoError(t, err)

	modify, ok := req.(ModifyOrderRequest)
	require.True(t, ok)
	require.NotNil(t, modify.Mod.Price)
	assert.EqualValues(t, 150, *modify.Mod.Price)
	assert.Nil(t, modify.Mod.Quantity)
	assert.Nil(t, modify.Mod.Type)
	assert.Nil(t, modify.Mod.Side)
}

func TestLogBookRoundTrip(t *testing.T) {
	payload := EncodeLogBook(engine.Equities)
	req, err := ParseRequest(payload)
	require.NoError(t, err)

	_, ok := req.(LogBookRequest)
	assert.True(t, ok)
}

func TestParseRequestRejectsUnknownType(t *testing.T) {
	payload := []byte{0xFF, 0xFF, 0, 0}
	_, err := ParseRequest(payload)
	assert.ErrorIs(t, err, ErrInvalidMessageType)
}

func TestParseRequestRejectsTruncatedBody(t *testing.T) {
	payload := EncodeNewOrder(engine.Equities, engine.GoodTillCancel, engine.Buy, 101, 5)
	_, err := ParseRequest(payload[:len(payload)-4])
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestEncodeReportLayout(t *testing.T) {
	out := EncodeReport(StatusSuccess, []byte("abc"))
	require.Len(t, out, 4+32+3)
	assert.Equal(t, "abc", string(out[36:]))
}
