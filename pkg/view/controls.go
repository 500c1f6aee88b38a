package view

import (
	"fmt"
	"io"
	"sync"
)

const (
	LabelCompare       = "Compare"
	LabelRemoveCompare = "Remove from Compare"
)

// Button is the state of a compare toggle for one car.
type Button struct {
	CarID     int
	Label     string
	Class     string
	InCompare bool
}

// CompareButton derives the toggle state from membership.
func CompareButton(carID int, member bool) Button {
	if member {
		return Button{CarID: carID, Label: LabelRemoveCompare, Class: "compare-btn in-compare", InCompare: true}
	}
	return Button{CarID: carID, Label: LabelCompare, Class: "compare-btn", InCompare: false}
}

// Controls are the compare toggles currently on screen.
type Controls struct {
	mu      sync.Mutex
	buttons []Button
}

// NewControls shows a toggle for every id, initially not in the comparison.
func NewControls(carIDs ...int) *Controls {
	c := &Controls{}
	for _, id := range carIDs {
		c.buttons = append(c.buttons, CompareButton(id, false))
	}
	return c
}

// Refresh relabels every toggle.
func (c *Controls) Refresh(isMember func(carID int) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, b := range c.buttons {
		c.buttons[i] = CompareButton(b.CarID, isMember(b.CarID))
	}
}

func (c *Controls) Buttons() []Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Button, len(c.buttons))
	copy(out, c.buttons)
	return out
}

func (c *Controls) Button(carID int) (Button, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range c.buttons {
		if b.CarID == carID {
			return b, true
		}
	}
	return Button{}, false
}

// RenderControls prints one line per toggle, e.g. "[Compare] #12".
func RenderControls(w io.Writer, c *Controls) error {
	for _, b := range c.Buttons() {
		if _, err := fmt.Fprintf(w, "[%s] #%d\n", b.Label, b.CarID); err != nil {
			return err
		}
	}
	return nil
}
