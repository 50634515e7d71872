package pollercache

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// UnderlyingKey identifies an underlying-amount poll: a recipe evaluated at a unit
// amount.
type UnderlyingKey struct {
	RecipeID   string
	UnitAmount *big.Int
}

// AddressKey canonicalizes an address to its checksummed hex form.
func AddressKey(addr common.Address) (string, error) {
	if addr == (common.Address{}) {
		return "", fmt.Errorf("%w: zero address", ErrMalformedKey)
	}

	return addr.Hex(), nil
}

// Canonical returns "<recipe>@<decimal amount>". Two keys built independently from
// equal values produce the same string.
func (k UnderlyingKey) Canonical() (string, error) {
	if k.RecipeID == "" || strings.ContainsRune(k.RecipeID, '@') {
		return "", fmt.Errorf("%w: invalid recipe id %q", ErrMalformedKey, k.RecipeID)
	}

	if k.UnitAmount == nil || k.UnitAmount.Sign() <= 0 {
		return "", fmt.Errorf("%w: unit amount must be positive", ErrMalformedKey)
	}

	return k.RecipeID + "@" + k.UnitAmount.String(), nil
}

func underlyingKey(k UnderlyingKey) (string, error) {
	return k.Canonical()
}
