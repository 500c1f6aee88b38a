// Package compare manages the user's comparison set: up to MaxCompare car
// ids kept in local storage in the order they were added.
//
// Storage is the only source of truth. Every operation reads the stored
// value afresh and every mutation writes the whole set back, so several
// managers sharing a store always agree.
package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/trichner/carlot/pkg/carapi"
	"github.com/trichner/carlot/pkg/localstore"
	"github.com/trichner/carlot/pkg/notify"
	"github.com/trichner/carlot/pkg/set"
	"github.com/trichner/carlot/pkg/view"
)

const (
	// MaxCompare is the capacity of the comparison set.
	MaxCompare = 3
	// StorageKey holds the set as a JSON array of ids.
	StorageKey = "compare_cars"
)

const (
	msgLoginRequired = "Please login to compare cars. Go to login page?"
	msgClearConfirm  = "Clear all cars from comparison?"
	msgInvalidID     = "Invalid car ID. Please refresh the page and try again."
	msgDuplicate     = "This car is already in comparison"
	msgAdded         = "Car added to comparison"
	msgRemoved       = "Car removed from comparison"
)

var msgCapacity = fmt.Sprintf("You can only compare up to %d cars at a time. Please remove one first.", MaxCompare)

type Authenticator interface {
	LoggedIn(ctx context.Context) bool
}

type Prompter interface {
	Confirm(message string) bool
}

// LoginPrompter takes the user to the login flow.
type LoginPrompter interface {
	PromptLogin(ctx context.Context)
}

// Controls reflect membership onto the compare toggles on screen.
type Controls interface {
	Refresh(isMember func(carID int) bool)
}

type CarFetcher interface {
	GetCar(ctx context.Context, id int) (*carapi.Car, error)
}

// Deps are the collaborators of a Manager, all required unless noted.
type Deps struct {
	Store    localstore.Store
	Auth     Authenticator
	Notifier notify.Notifier
	Prompter Prompter
	Login    LoginPrompter
	Controls Controls
	Cars     CarFetcher

	// OnComparisonPage is set when the comparison itself is on screen;
	// removals and clears then reload it through Reload.
	OnComparisonPage bool
	Reload           func(ctx context.Context, c view.Comparison)
}

type Manager struct {
	deps Deps
}

func NewManager(deps Deps) (*Manager, error) {
	switch {
	case deps.Store == nil:
		return nil, fmt.Errorf("compare: missing store")
	case deps.Auth == nil:
		return nil, fmt.Errorf("compare: missing authenticator")
	case deps.Notifier == nil:
		return nil, fmt.Errorf("compare: missing notifier")
	case deps.Prompter == nil:
		return nil, fmt.Errorf("compare: missing prompter")
	case deps.Login == nil:
		return nil, fmt.Errorf("compare: missing login prompter")
	case deps.Controls == nil:
		return nil, fmt.Errorf("compare: missing controls")
	case deps.Cars == nil:
		return nil, fmt.Errorf("compare: missing car fetcher")
	case deps.OnComparisonPage && deps.Reload == nil:
		return nil, fmt.Errorf("compare: comparison page without reload")
	}
	return &Manager{deps: deps}, nil
}

// Members returns the stored ids in insertion order. Missing, unreadable or
// corrupt values read as an empty set.
func (m *Manager) Members(ctx context.Context) []int {
	return m.load(ctx).ToSlice()
}

// IsMember reports whether id is in the stored set.
func (m *Manager) IsMember(ctx context.Context, id int) bool {
	return m.load(ctx).Contains(id)
}

// Add appends id to the comparison. It reports false without touching the
// set when the user is not logged in, id is invalid, already a member or
// the set is full.
func (m *Manager) Add(ctx context.Context, id int) bool {
	if !m.deps.Auth.LoggedIn(ctx) {
		slog.Debug("add to comparison without login", "car", id)
		if m.deps.Prompter.Confirm(msgLoginRequired) {
			m.deps.Login.PromptLogin(ctx)
		}
		return false
	}

	if id <= 0 {
		m.deps.Notifier.Notify(msgInvalidID, notify.Error)
		return false
	}

	members := m.load(ctx)
	if members.Contains(id) {
		m.deps.Notifier.Notify(msgDuplicate, notify.Warning)
		return false
	}
	if members.Len() >= MaxCompare {
		m.deps.Notifier.Notify(msgCapacity, notify.Warning)
		return false
	}

	members.Add(id)
	m.save(ctx, members)
	slog.Info("car added to comparison", "car", id, "members", members.Len())

	m.deps.Notifier.Notify(msgAdded, notify.Success)
	m.refreshControls(ctx)
	return true
}

// Remove drops id from the comparison and reports whether it was a member.
func (m *Manager) Remove(ctx context.Context, id int) bool {
	members := m.load(ctx)
	if !members.Remove(id) {
		slog.Debug("car not in comparison", "car", id)
		return false
	}

	m.save(ctx, members)
	slog.Info("car removed from comparison", "car", id, "members", members.Len())

	m.deps.Notifier.Notify(msgRemoved, notify.Info)
	m.refreshControls(ctx)
	m.reload(ctx)
	return true
}

// Clear empties the comparison after the user confirms.
func (m *Manager) Clear(ctx context.Context) {
	if !m.deps.Prompter.Confirm(msgClearConfirm) {
		return
	}

	m.save(ctx, set.New[int]())
	slog.Info("comparison cleared")

	m.refreshControls(ctx)
	m.reload(ctx)
}

// LoadView fetches the member cars and builds the comparison. Fetches run
// concurrently and independently. Cars that fail to load or fail
// validation are left out; the remaining cards keep member order.
func (m *Manager) LoadView(ctx context.Context) view.Comparison {
	ids := m.Members(ctx)
	if len(ids) == 0 {
		return view.Comparison{}
	}

	cards := make([]*view.Card, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			car, err := m.deps.Cars.GetCar(ctx, id)
			if err != nil {
				slog.Warn("skipping car in comparison", "car", id, "err", err)
				return nil
			}
			card, err := view.NewCard(car)
			if err != nil {
				slog.Warn("skipping car in comparison", "car", id, "err", err)
				return nil
			}
			cards[i] = &card
			return nil
		})
	}
	// the workers never fail, errors only skip their card
	_ = g.Wait()

	c := view.Comparison{Members: len(ids)}
	for _, card := range cards {
		if card != nil {
			c.Cards = append(c.Cards, *card)
		}
	}
	return c
}

func (m *Manager) refreshControls(ctx context.Context) {
	members := m.load(ctx)
	m.deps.Controls.Refresh(members.Contains)
}

func (m *Manager) reload(ctx context.Context) {
	if !m.deps.OnComparisonPage {
		return
	}
	m.deps.Reload(ctx, m.LoadView(ctx))
}

func (m *Manager) load(ctx context.Context) *set.Set[int] {
	raw, ok, err := m.deps.Store.GetItem(ctx, StorageKey)
	if err != nil {
		slog.Warn("cannot read comparison, treating it as empty", "err", err)
		return set.New[int]()
	}
	if !ok {
		return set.New[int]()
	}

	ids, err := decode(raw)
	if err != nil {
		slog.Debug("corrupt comparison in storage, treating it as empty", "value", raw, "err", err)
		return set.New[int]()
	}
	return set.New(ids...)
}

// save writes members back. Write failures are logged and otherwise
// ignored, the next read shows what actually got stored.
func (m *Manager) save(ctx context.Context, members *set.Set[int]) {
	raw, err := json.Marshal(members.ToSlice())
	if err != nil {
		slog.Warn("cannot encode comparison", "err", err)
		return
	}
	if err := m.deps.Store.SetItem(ctx, StorageKey, string(raw)); err != nil {
		slog.Warn("cannot save comparison", "err", err)
	}
}

// decode parses a stored set. Values that break the set's invariants are
// rejected as a whole.
func decode(raw string) ([]int, error) {
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	if len(ids) > MaxCompare {
		return nil, fmt.Errorf("%d members exceed capacity %d", len(ids), MaxCompare)
	}
	seen := set.New[int]()
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("invalid id %d", id)
		}
		if !seen.Add(id) {
			return nil, fmt.Errorf("duplicate id %d", id)
		}
	}
	return ids, nil
}
