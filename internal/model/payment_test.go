package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePaymentMethodDefault(t *testing.T) {
	assert.Equal(t, PaymentDinheiro, ResolvePaymentMethod(nil))

	empty := ""
	assert.Equal(t, PaymentDinheiro, ResolvePaymentMethod(&empty))

	pix := "pix"
	assert.Equal(t, PaymentPix, ResolvePaymentMethod(&pix))
}

func TestPaymentBuckets(t *testing.T) {
	assert.Equal(t, BucketPix, PaymentPix.Bucket())
	assert.Equal(t, BucketCard, PaymentCartaoDebito.Bucket())
	assert.Equal(t, BucketCard, PaymentCartaoCredit.Bucket())
	assert.Equal(t, BucketCash, PaymentDinheiro.Bucket())
	// Unknown values fall back to cash so the buckets always cover the total.
	assert.Equal(t, BucketCash, PaymentMethod("cheque").Bucket())
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, StatusEmProducao.CanTransitionTo(StatusEmRota))
	assert.True(t, StatusEmRota.CanTransitionTo(StatusEntregue))
	assert.True(t, StatusEmProducao.CanTransitionTo(StatusCancelado))
	assert.True(t, StatusEmRota.CanTransitionTo(StatusCancelado))

	assert.False(t, StatusEmProducao.CanTransitionTo(StatusEntregue))
	assert.False(t, StatusEmRota.CanTransitionTo(StatusEmProducao))
	assert.False(t, StatusEntregue.CanTransitionTo(StatusCancelado))
	assert.False(t, StatusCancelado.CanTransitionTo(StatusEmProducao))
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, StatusEmProducao.Terminal())
	assert.False(t, StatusEmRota.Terminal())
	assert.True(t, StatusEntregue.Terminal())
	assert.True(t, StatusCancelado.Terminal())
}
