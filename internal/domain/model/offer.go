package model

import (
	"time"

	"telegram-affiliate-bot/internal/domain"

	"github.com/google/uuid"
)

// Category is a closed enumeration of offer categories. Every category maps
// to exactly one presentation variant in the content package; anything outside
// the enumeration renders through CategoryOther.
type Category string

const (
	CategoryAITools      Category = "AI Tools"
	CategoryEcommerce    Category = "E-commerce"
	CategoryMarketing    Category = "Marketing"
	CategoryEducation    Category = "Education"
	CategoryCrypto       Category = "Cryptocurrency"
	CategoryTrading      Category = "Trading"
	CategoryHealth       Category = "Health"
	CategoryDesign       Category = "Design"
	CategoryProductivity Category = "Productivity"
	CategoryOther        Category = "Other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryAITools, CategoryEcommerce, CategoryMarketing, CategoryEducation,
		CategoryCrypto, CategoryTrading, CategoryHealth, CategoryDesign,
		CategoryProductivity, CategoryOther:
		return true
	}
	return false
}

// Normalize folds unknown categories into CategoryOther so downstream lookups
// stay total.
func (c Category) Normalize() Category {
	if c.IsValid() {
		return c
	}
	return CategoryOther
}

// Offer is a promotable affiliate item. Offers are immutable after creation;
// the catalog only ever appends or regenerates in bulk.
type Offer struct {
	ID            string
	Title         string
	Description   string
	Category      Category
	Commission    float64
	Gravity       float64
	AffiliateLink string
	Platform      string
	CreatedAt     time.Time
}

func NewOffer(title, description string, category Category, commission, gravity float64, link, platform string) (*Offer, error) {
	if title == "" || link == "" {
		return nil, domain.ErrInvalidArgument
	}
	if commission < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Offer{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   description,
		Category:      category.Normalize(),
		Commission:    commission,
		Gravity:       gravity,
		AffiliateLink: link,
		Platform:      platform,
		CreatedAt:     time.Now(),
	}, nil
}
