package mongo

import "github.com/shopspring/decimal"

// Money persists as decimal strings. decimal.Decimal has no native BSON
// representation, and strings keep amounts exact across drivers and shells.

func moneyToString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func moneyFromString(s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}
