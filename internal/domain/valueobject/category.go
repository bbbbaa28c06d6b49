package valueobject

import "math"

// CategoryKey identifies one of the fixed budget categories.
type CategoryKey string

const (
	CategoryFixedCosts CategoryKey = "custos_fixos"
	CategoryComfort    CategoryKey = "conforto"
	CategoryGoals      CategoryKey = "metas"
	CategoryPleasures  CategoryKey = "prazeres"
	CategoryFreedom    CategoryKey = "liberdade"
	CategoryKnowledge  CategoryKey = "conhecimento"
)

// DiscretionaryCategory is the category whose expenses may feed a goal linked by category key.
const DiscretionaryCategory = CategoryFreedom

// LimitSumTolerance is the accepted deviation from 100% when validating category limits.
const LimitSumTolerance = 0.01

// DefaultCategoryLimits returns the percentages applied to a family's first month.
func DefaultCategoryLimits() map[CategoryKey]float64 {
	return map[CategoryKey]float64{
		CategoryFixedCosts: 30,
		CategoryComfort:    15,
		CategoryGoals:      15,
		CategoryPleasures:  10,
		CategoryFreedom:    25,
		CategoryKnowledge:  5,
	}
}

// LimitsSumTo100 reports whether the percentages add up to 100 within LimitSumTolerance.
func LimitsSumTo100(limits map[CategoryKey]float64) bool {
	var total float64
	for _, pct := range limits {
		total += pct
	}
	return math.Abs(total-100) <= LimitSumTolerance
}
