package rfq

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyDeliveryAddress = errors.New("delivery address is required")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrEmptyUnit            = errors.New("unit is required")
	ErrEmptyMaterialKey     = errors.New("material key is required")
)

type DeliveryAddress struct {
	value string
}

func NewDeliveryAddress(value string) (DeliveryAddress, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DeliveryAddress{}, ErrEmptyDeliveryAddress
	}
	return DeliveryAddress{value: trimmed}, nil
}

func (a DeliveryAddress) String() string {
	return a.value
}

type Quantity struct {
	value decimal.Decimal
}

func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.LessThanOrEqual(decimal.Zero) {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{value: value}, nil
}

func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: strings.TrimSpace(value)}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
