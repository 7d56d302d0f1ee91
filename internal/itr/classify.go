// Package itr maps declared income sources to a tax-form category and
// filing fee. Classification is a pure function so it can be invoked
// explicitly on every income-source change rather than hidden behind a
// persistence hook.
package itr

import "itrportal/internal/models"

// Filing fees in rupees per ITR category
const (
	PriceITR1 = 299
	PriceITR2 = 1499
	PriceITR3 = 1999
	PriceITR4 = 799
)

// Classify returns the ITR category and fee for the given income
// sources. The rules form an ordered decision table, first match wins:
//
//  1. business with capital gains or foreign income -> ITR3
//  2. business alone                                -> ITR4
//  3. capital gains or foreign income, no business  -> ITR2
//  4. anything else (incl. nothing declared)        -> ITR1
func Classify(src models.IncomeSources) (models.ItrType, int) {
	hasBusiness := src.Business
	hasCapitalOrForeign := src.CapitalGains || src.ForeignSource

	switch {
	case hasBusiness && hasCapitalOrForeign:
		return models.ITR3, PriceITR3
	case hasBusiness:
		return models.ITR4, PriceITR4
	case hasCapitalOrForeign:
		return models.ITR2, PriceITR2
	default:
		return models.ITR1, PriceITR1
	}
}
