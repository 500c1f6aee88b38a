// Package view turns API models into typed view-models and renders them for
// a terminal or as HTML.
package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/trichner/carlot/pkg/carapi"
)

// FallbackImage is shown for cars without pictures.
const FallbackImage = "images/2023-Toyota-Camry.webp"

var ErrInvalidCar = errors.New("invalid car record")

type Row struct {
	Label string
	Value string
}

// Card is one car in a comparison.
type Card struct {
	CarID     int
	Title     string
	Price     string
	ImageURL  string
	ImageAlt  string
	DetailURL string
	Rows      []Row
}

// NewCard validates car and builds its card. Records missing identifying
// fields are rejected rather than rendered half empty.
func NewCard(car *carapi.Car) (Card, error) {
	if car == nil {
		return Card{}, fmt.Errorf("%w: nil", ErrInvalidCar)
	}
	var missing []string
	if car.ID <= 0 {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(car.Make) == "" {
		missing = append(missing, "make")
	}
	if strings.TrimSpace(car.Model) == "" {
		missing = append(missing, "model")
	}
	if car.Year <= 0 {
		missing = append(missing, "year")
	}
	if car.Price < 0 {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return Card{}, fmt.Errorf("%w %d: bad %s", ErrInvalidCar, car.ID, strings.Join(missing, ", "))
	}

	price := FormatPrice(car.Price)
	card := Card{
		CarID:     car.ID,
		Title:     fmt.Sprintf("%d %s %s", car.Year, car.Make, car.Model),
		Price:     price,
		ImageURL:  imageURL(car.ImageURLs),
		ImageAlt:  car.Make + " " + car.Model,
		DetailURL: "car-detail.html?id=" + strconv.Itoa(car.ID),
		Rows: []Row{
			{"Year", strconv.Itoa(car.Year)},
			{"Price", price},
			{"Mileage", humanize.Comma(int64(car.Mileage)) + " mi"},
			{"Fuel Type", car.FuelType},
			{"Transmission", car.Transmission},
			{"Condition", condition(car)},
		},
	}

	if s := car.Specs; s != nil {
		if s.Horsepower != nil {
			card.Rows = append(card.Rows, Row{"Horsepower", strconv.Itoa(*s.Horsepower) + " HP"})
		}
		if s.MPGCity != nil && s.MPGHighway != nil {
			card.Rows = append(card.Rows, Row{"MPG", formatFloat(*s.MPGCity) + "/" + formatFloat(*s.MPGHighway) + " city/hwy"})
		}
	}
	if s := car.Scores; s != nil && s.OverallScore != nil {
		card.Rows = append(card.Rows, Row{"Overall Score", strconv.FormatFloat(*s.OverallScore, 'f', 1, 64) + "/10"})
	}
	return card, nil
}

func FormatPrice(p float64) string {
	return "$" + humanize.Commaf(p)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func condition(car *carapi.Car) string {
	if car.EngineCondition == "" {
		return car.Condition
	}
	e := car.EngineCondition
	return car.Condition + " • Engine: " + strings.ToUpper(e[:1]) + e[1:]
}

func imageURL(urls []string) string {
	u := FallbackImage
	if len(urls) > 0 && urls[0] != "" {
		u = urls[0]
	}
	// bundled images have spaces in their names
	if strings.HasPrefix(u, "images/") {
		u = strings.ReplaceAll(u, " ", "%20")
	}
	return u
}

// Comparison is the content of the comparison page.
type Comparison struct {
	// Members is the number of cars in the comparison set, including ones
	// whose records could not be loaded.
	Members int
	Cards   []Card
}

// Empty reports whether there is nothing to compare. A comparison whose
// members all failed to load is not empty, it renders an empty grid.
func (c Comparison) Empty() bool {
	return c.Members == 0
}
