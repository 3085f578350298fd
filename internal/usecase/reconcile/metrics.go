package reconcile

import (
	"math/big"
	"strings"
)

// Display-only derived metrics. Both are recomputed fresh from the current
// integer totals after every mutation of their inputs, never adjusted
// incrementally, so no rounding drift can accumulate in the stored values.

// SharePrice returns totalAssets/totalSupply as a decimal string. An empty
// vault prices at "1.0" so the first deposit mints one share per asset.
func SharePrice(totalAssets, totalSupply *big.Int) string {
	if totalSupply == nil || totalSupply.Sign() == 0 {
		return "1.0"
	}
	return ratioString(new(big.Rat).SetFrac(totalAssets, totalSupply))
}

// UtilizationRate returns totalOutstandingLoans/totalAssets as a
// percentage string, "0" when the vault holds no assets.
func UtilizationRate(totalOutstandingLoans, totalAssets *big.Int) string {
	if totalAssets == nil || totalAssets.Sign() == 0 {
		return "0"
	}
	scaled := new(big.Int).Mul(totalOutstandingLoans, big.NewInt(100))
	return ratioString(new(big.Rat).SetFrac(scaled, totalAssets))
}

func ratioString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	s := r.FloatString(6)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
