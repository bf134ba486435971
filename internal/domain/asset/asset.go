package asset

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Kind names one of the reference tables that feed the recipe form dropdowns.
type Kind string

const (
	KindCuisine  Kind = "cuisine"
	KindCategory Kind = "category"
	KindMeasure  Kind = "measure"
	KindFraction Kind = "fraction"

	errUnknownKindFmt = "wrong field: %q"
)

var Kinds = []Kind{KindCuisine, KindCategory, KindMeasure, KindFraction}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf(errUnknownKindFmt, s)
}

type Asset struct {
	ID      uuid.UUID `json:"_id"`
	Kind    Kind      `json:"-"`
	Label   string    `json:"label"`
	Decimal *float64  `json:"decimal,omitempty"`
}

type Input struct {
	Label   string   `json:"label"`
	Decimal *float64 `json:"decimal"`
}

// Catalog is the full set of dropdown options served by GET /assets.
type Catalog struct {
	Categories []Asset `json:"categories_options"`
	Cuisines   []Asset `json:"cuisine_options"`
	Fractions  []Asset `json:"fraction_options"`
	Measures   []Asset `json:"measure_options"`
}

type Fraction struct {
	Label   string
	Decimal float64
}

var CuisineSeed = []string{
	"african", "asian", "caribbean", "chinese", "french", "greek", "indian",
	"italian", "japanese", "latin american", "mexican", "mediterranean",
	"american", "spanish", "thai", "vietnamese", "other",
}

var CategorySeed = []string{
	"breakfast", "lunch", "dinner", "appetizer", "soup", "salad", "dessert",
	"sauce", "drink", "vegetarian", "easy", "quick", "for two",
}

var MeasureSeed = []string{
	"teaspoon", "tablespoon", "cup", "gallon", "gram", "pound", "kilogram",
	"ounce", "litre",
}

var FractionSeed = []Fraction{
	{Label: "0", Decimal: 0},
	{Label: "⅛", Decimal: 0.125},
	{Label: "¼", Decimal: 0.25},
	{Label: "⅓", Decimal: 0.33333333333333},
	{Label: "½", Decimal: 0.5},
	{Label: "⅔", Decimal: 0.66666666666667},
	{Label: "¾", Decimal: 0.75},
}

// Seed expands the seed lists into assets ready for insertion.
func Seed() []Asset {
	out := make([]Asset, 0, len(CuisineSeed)+len(CategorySeed)+len(MeasureSeed)+len(FractionSeed))
	for _, label := range CuisineSeed {
		out = append(out, Asset{Kind: KindCuisine, Label: label})
	}
	for _, label := range CategorySeed {
		out = append(out, Asset{Kind: KindCategory, Label: label})
	}
	for _, label := range MeasureSeed {
		out = append(out, Asset{Kind: KindMeasure, Label: label})
	}
	for _, f := range FractionSeed {
		d := f.Decimal
		out = append(out, Asset{Kind: KindFraction, Label: f.Label, Decimal: &d})
	}
	return out
}

// BuildCatalog groups assets by kind. Categories and cuisines are sorted by
// label and fractions by value; measures keep their stored order.
func BuildCatalog(assets []Asset) Catalog {
	c := Catalog{
		Categories: []Asset{},
		Cuisines:   []Asset{},
		Fractions:  []Asset{},
		Measures:   []Asset{},
	}

	for _, a := range assets {
		switch a.Kind {
		case KindCategory:
			c.Categories = append(c.Categories, a)
		case KindCuisine:
			c.Cuisines = append(c.Cuisines, a)
		case KindFraction:
			c.Fractions = append(c.Fractions, a)
		case KindMeasure:
			c.Measures = append(c.Measures, a)
		}
	}

	byLabel := func(list []Asset) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Label < list[j].Label })
	}
	byLabel(c.Categories)
	byLabel(c.Cuisines)

	sort.SliceStable(c.Fractions, func(i, j int) bool {
		return decimalOf(c.Fractions[i]) < decimalOf(c.Fractions[j])
	})

	return c
}

func decimalOf(a Asset) float64 {
	if a.Decimal == nil {
		return 0
	}
	return *a.Decimal
}
