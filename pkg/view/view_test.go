package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trichner/carlot/pkg/carapi"
)

func ptr[T any](v T) *T { return &v }

func camry() *carapi.Car {
	return &carapi.Car{
		ID:              12,
		Make:            "Toyota",
		Model:           "Camry",
		Year:            2023,
		Price:           27500,
		Mileage:         12000,
		FuelType:        "Gasoline",
		Transmission:    "Automatic",
		Condition:       "used",
		EngineCondition: "good",
		ImageURLs:       []string{"images/2023 Toyota Camry.webp"},
		Specs:           &carapi.Specs{Horsepower: ptr(203), MPGCity: ptr(28.0), MPGHighway: ptr(39.0)},
		Scores:          &carapi.Scores{OverallScore: ptr(8.44)},
	}
}

func rowValue(c Card, label string) (string, bool) {
	for _, r := range c.Rows {
		if r.Label == label {
			return r.Value, true
		}
	}
	return "", false
}

func TestNewCard(t *testing.T) {
	card, err := NewCard(camry())
	require.NoError(t, err)

	assert.Equal(t, 12, card.CarID)
	assert.Equal(t, "2023 Toyota Camry", card.Title)
	assert.Equal(t, "$27,500", card.Price)
	assert.Equal(t, "images/2023%20Toyota%20Camry.webp", card.ImageURL)
	assert.Equal(t, "car-detail.html?id=12", card.DetailURL)

	v, _ := rowValue(card, "Mileage")
	assert.Equal(t, "12,000 mi", v)
	v, _ = rowValue(card, "Condition")
	assert.Equal(t, "used • Engine: Good", v)
	v, _ = rowValue(card, "Horsepower")
	assert.Equal(t, "203 HP", v)
	v, _ = rowValue(card, "MPG")
	assert.Equal(t, "28/39 city/hwy", v)
	v, _ = rowValue(card, "Overall Score")
	assert.Equal(t, "8.4/10", v)
}

func TestNewCardOptionalRows(t *testing.T) {
	car := camry()
	car.EngineCondition = ""
	car.ImageURLs = nil
	car.Specs = &carapi.Specs{MPGCity: ptr(30.5)}
	car.Scores = nil

	card, err := NewCard(car)
	require.NoError(t, err)

	assert.Equal(t, FallbackImage, card.ImageURL)
	v, _ := rowValue(card, "Condition")
	assert.Equal(t, "used", v)
	for _, label := range []string{"Horsepower", "MPG", "Overall Score"} {
		_, ok := rowValue(card, label)
		assert.False(t, ok, label)
	}
}

func TestNewCardRemoteImageKeepsSpaces(t *testing.T) {
	car := camry()
	car.ImageURLs = []string{"https://cdn.example.com/a b.jpg"}

	card, err := NewCard(car)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a b.jpg", card.ImageURL)
}

func TestNewCardRejectsIncompleteRecords(t *testing.T) {
	_, err := NewCard(nil)
	assert.ErrorIs(t, err, ErrInvalidCar)

	car := camry()
	car.Make = " "
	car.Year = 0
	_, err = NewCard(car)
	assert.ErrorIs(t, err, ErrInvalidCar)
	assert.Contains(t, err.Error(), "make, year")
}

func TestCompareButton(t *testing.T) {
	assert.Equal(t, Button{CarID: 10, Label: "Remove from Compare", Class: "compare-btn in-compare", InCompare: true}, CompareButton(10, true))
	assert.Equal(t, Button{CarID: 10, Label: "Compare", Class: "compare-btn"}, CompareButton(10, false))
}

func TestControlsRefresh(t *testing.T) {
	c := NewControls(10, 20)

	c.Refresh(func(id int) bool { return id == 20 })

	b, ok := c.Button(10)
	require.True(t, ok)
	assert.Equal(t, LabelCompare, b.Label)
	b, _ = c.Button(20)
	assert.Equal(t, LabelRemoveCompare, b.Label)

	_, ok = c.Button(30)
	assert.False(t, ok)

	var buf bytes.Buffer
	require.NoError(t, RenderControls(&buf, c))
	assert.Equal(t, "[Compare] #10\n[Remove from Compare] #20\n", buf.String())
}

func TestRenderHTML(t *testing.T) {
	first, err := NewCard(camry())
	require.NoError(t, err)
	second := first
	second.CarID = 45
	second.Title = "2021 Honda <Civic>"

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Comparison{Members: 3, Cards: []Card{first, second}}))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	cards := doc.Find("#comparisonGrid .comparison-card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "12", cards.Eq(0).AttrOr("data-car-id", ""))
	assert.Equal(t, "45", cards.Eq(1).AttrOr("data-car-id", ""))
	assert.Equal(t, "2021 Honda <Civic>", cards.Eq(1).Find("h3").Text())
	assert.Equal(t, "$27,500", cards.Eq(0).Find(".comparison-price").Text())
	assert.Equal(t, 0, doc.Find("#emptyState").Length())
}

func TestRenderHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Comparison{}))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#emptyState").Length())
	assert.Equal(t, 0, doc.Find("#comparisonGrid").Length())
}

func TestRenderHTMLAllFailed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Comparison{Members: 2}))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("#emptyState").Length())
	assert.Equal(t, 1, doc.Find("#comparisonGrid").Length())
	assert.Equal(t, 0, doc.Find(".comparison-card").Length())
}

func TestRenderTerminal(t *testing.T) {
	card, err := NewCard(camry())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderTerminal(&buf, Comparison{Members: 1, Cards: []Card{card}}))

	out := buf.String()
	assert.Contains(t, out, "2023 Toyota Camry")
	assert.Contains(t, out, "$27,500")
	assert.Contains(t, out, "#12")

	buf.Reset()
	require.NoError(t, RenderTerminal(&buf, Comparison{}))
	assert.True(t, strings.HasPrefix(buf.String(), "No cars to compare"))
}
