package domain

import "github.com/shopspring/decimal"

// weiPerEth is the fixed divisor converting native integer units to the
// display unit (10^18).
var weiPerEth = decimal.New(1, 18)

// TransactionRecord is one native value transfer involving the scored
// wallet. Timestamp is unix seconds. From/To are canonical lowercase
// addresses. Value is the raw integer amount in the smallest native unit,
// as returned by the explorer API.
type TransactionRecord struct {
	Hash      string
	Timestamp int64
	From      string
	To        string
	Value     string
}

// ValueEth converts the raw integer value to the display unit.
// Unparseable or negative values convert to 0; a native transfer can
// never move a negative amount, so a negative row is corrupt data.
func (t *TransactionRecord) ValueEth() float64 {
	d, err := decimal.NewFromString(t.Value)
	if err != nil || d.IsNegative() {
		return 0
	}
	f, _ := d.Div(weiPerEth).Float64()
	return f
}

// TokenTransferRecord is one token movement involving the scored wallet.
// Only the contract identity and timestamp matter for scoring; the symbol
// is carried for display.
type TokenTransferRecord struct {
	Hash            string
	Timestamp       int64
	ContractAddress string
	TokenSymbol     string
}
