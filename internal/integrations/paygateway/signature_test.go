package paygateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","kind":"payment_intent.succeeded","intent_id":"pi_1"}`)
	secret := "whsec_test"

	signature := ComputeSignature(payload, secret)

	require.NoError(t, VerifySignature(payload, signature, secret))

	// Подменённое тело не проходит проверку
	tampered := []byte(`{"id":"evt_1","kind":"charge.refunded","intent_id":"pi_1"}`)
	assert.ErrorIs(t, VerifySignature(tampered, signature, secret), ErrInvalidSignature)

	// Чужой секрет не проходит проверку
	assert.ErrorIs(t, VerifySignature(payload, signature, "whsec_other"), ErrInvalidSignature)

	// Пустая подпись не проходит проверку
	assert.ErrorIs(t, VerifySignature(payload, "", secret), ErrInvalidSignature)
}

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(`{"id":"evt_42","kind":"payment_intent.failed","intent_id":"pi_9"}`))
	require.NoError(t, err)
	assert.Equal(t, "evt_42", event.ID)
	assert.Equal(t, EventIntentFailed, event.Kind)
	assert.Equal(t, "pi_9", event.IntentID)

	_, err = ParseEvent([]byte(`not json`))
	require.ErrorIs(t, err, ErrInvalidResponse)

	_, err = ParseEvent([]byte(`{"intent_id":"pi_9"}`))
	require.ErrorIs(t, err, ErrInvalidResponse)
}
