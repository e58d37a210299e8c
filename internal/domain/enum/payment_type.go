package enum

import "database/sql/driver"

// PaymentType represents how an invoice was paid
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "cash"
	PaymentTypeCashless PaymentType = "cashless"
)

func (p PaymentType) String() string {
	return string(p)
}

// Valid reports whether the value is a known payment type
func (p PaymentType) Valid() bool {
	return p == PaymentTypeCash || p == PaymentTypeCashless
}

func (p PaymentType) Value() (driver.Value, error) {
	return string(p), nil
}

func (p *PaymentType) Scan(value interface{}) error {
	if value == nil {
		*p = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*p = PaymentType(v)
	case []byte:
		*p = PaymentType(v)
	}
	return nil
}
