package commodity

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryEnergy      Category = "Energy"
	CategoryMetals      Category = "Metals"
	CategoryAgriculture Category = "Agriculture"
	CategoryLivestock   Category = "Livestock"
	CategorySofts       Category = "Softs"
	CategoryIndices     Category = "Indices"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryEnergy, CategoryMetals, CategoryAgriculture, CategoryLivestock, CategorySofts, CategoryIndices:
		return true
	default:
		return false
	}
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid commodity category: %s", s)
	}
	return c, nil
}

// Commodity is one tracked price series. Instances are created from the
// static catalog and mutated only by the price generator.
type Commodity struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Unit          string    `json:"unit"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	LastUpdate    time.Time `json:"last_update"`
}
