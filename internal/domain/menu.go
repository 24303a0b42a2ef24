package domain

import "time"

type Category string

const (
	CategoryStarters  Category = "starters"
	CategoryMains     Category = "mains"
	CategoryDesserts  Category = "desserts"
	CategoryBeverages Category = "beverages"
)

func ValidCategory(c Category) bool {
	switch c {
	case CategoryStarters, CategoryMains, CategoryDesserts, CategoryBeverages:
		return true
	}
	return false
}

type SpecialType string

const (
	SpecialSpicy   SpecialType = "SPICY"
	SpecialPopular SpecialType = "POPULAR"
	SpecialVegan   SpecialType = "VEGAN"
)

func ValidSpecial(s SpecialType) bool {
	switch s {
	case SpecialSpicy, SpecialPopular, SpecialVegan:
		return true
	}
	return false
}

type ItemSpecial struct {
	ID         string      `json:"id"`
	MenuItemID string      `json:"menuItemId"`
	Type       SpecialType `json:"type"`
}

type MenuItem struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ArabicName  string        `json:"arabicName"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Category    Category      `json:"category"`
	Available   bool          `json:"available"`
	Specials    []ItemSpecial `json:"specials"`
	CreatedAt   time.Time     `json:"createdAt"`
}
