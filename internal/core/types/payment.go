package types

// APIDateLayout is the wire layout of calendar dates (YYYY-MM-DD).
const APIDateLayout = "2006-01-02"

// PaymentMethod is how a supplier invoice was paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
	PaymentCard PaymentMethod = "card"
)

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentBank, PaymentCard}
}

// IsValid reports whether p is one of the known methods.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentBank, PaymentCard:
		return true
	default:
		return false
	}
}

// Label returns the Bulgarian display name.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "В брой"
	case PaymentBank:
		return "Банков превод"
	case PaymentCard:
		return "Карта"
	default:
		return string(p)
	}
}
