package types

// TipCategory classifies a travel tip.
type TipCategory string

const (
	TipCategoryGeneral  TipCategory = "general"
	TipCategorySeasonal TipCategory = "seasonal"
	TipCategoryLocal    TipCategory = "local"
	TipCategoryBudget   TipCategory = "budget"
)

// TravelTip is a short piece of advice shown next to search results.
type TravelTip struct {
	Text     string      `json:"text"`
	Category TipCategory `json:"category"`
	Emoji    string      `json:"emoji"`
}
