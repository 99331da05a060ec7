package model

// PaymentMethod is the payment method recorded on orders and cash expenses.
type PaymentMethod string

const (
	PaymentDinheiro     PaymentMethod = "dinheiro"
	PaymentPix          PaymentMethod = "pix"
	PaymentCartaoDebito PaymentMethod = "cartao_debito"
	PaymentCartaoCredit PaymentMethod = "cartao_credito"
)

// PaymentBucket groups payment methods for the cash closure summary.
// Cards (debito + credito) are reported as a single bucket.
type PaymentBucket string

const (
	BucketPix  PaymentBucket = "pix"
	BucketCard PaymentBucket = "cartao"
	BucketCash PaymentBucket = "dinheiro"
)

// ResolvePaymentMethod normalizes an optional raw method to an explicit one.
// A missing or empty method means cash ("dinheiro").
func ResolvePaymentMethod(raw *string) PaymentMethod {
	if raw == nil || *raw == "" {
		return PaymentDinheiro
	}
	return PaymentMethod(*raw)
}

// Bucket maps a payment method to its closure bucket. Cash is the fallback
// for any unrecognized value so the three buckets always sum to the totals.
func (m PaymentMethod) Bucket() PaymentBucket {
	switch m {
	case PaymentPix:
		return BucketPix
	case PaymentCartaoDebito, PaymentCartaoCredit:
		return BucketCard
	default:
		return BucketCash
	}
}

// OrderStatus follows the kanban flow: em_producao → em_rota → entregue.
// "cancelado" can be reached from any non-terminal status.
type OrderStatus string

const (
	StatusEmProducao OrderStatus = "em_producao"
	StatusEmRota     OrderStatus = "em_rota"
	StatusEntregue   OrderStatus = "entregue"
	StatusCancelado  OrderStatus = "cancelado"
)

// QualifyingStatuses are the order statuses counted toward sales.
// Cancelled orders never contribute to any closure figure.
var QualifyingStatuses = []OrderStatus{StatusEmProducao, StatusEmRota, StatusEntregue}

// Terminal reports whether no further status transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusEntregue || s == StatusCancelado
}

// CanTransitionTo validates a kanban move.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelado {
		return true
	}
	switch s {
	case StatusEmProducao:
		return next == StatusEmRota
	case StatusEmRota:
		return next == StatusEntregue
	}
	return false
}
