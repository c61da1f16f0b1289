package dialog

import (
	"fmt"
	"sort"

	"menu-highlights/internal/domain"
)

// Name identifies one of the fixed dialogs.
type Name string

const (
	Config       Name = "config"
	AddProduct   Name = "addProduct"
	EditDiscount Name = "editDiscount"
	Preview      Name = "preview"
	Delete       Name = "delete"
	CopyDay      Name = "copyDay"
)

// Names lists every dialog.
var Names = []Name{Config, AddProduct, EditDiscount, Preview, Delete, CopyDay}

// ParseName validates a raw dialog name.
func ParseName(raw string) (Name, error) {
	for _, n := range Names {
		if string(n) == raw {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownDialog, raw)
}

// DayTarget selects a day, e.g. "add product to Tuesday".
type DayTarget struct {
	Day domain.WeekDay `json:"day"`
}

// ItemTarget selects a schedule item on a day.
type ItemTarget struct {
	Day    domain.WeekDay `json:"day"`
	ItemID string         `json:"itemId"`
}

// ProductTarget selects a catalog product.
type ProductTarget struct {
	Product domain.Product `json:"product"`
}

// Action is what an intent asks the coordinator to do.
type Action string

const (
	ActionOpen     Action = "open"
	ActionClose    Action = "close"
	ActionCloseAll Action = "closeAll"
)

// Intent is a UI message routed by Dispatch.
type Intent struct {
	Action  Action
	Dialog  Name
	Payload any
}

// Coordinator tracks which dialogs are open and what each operates on.
// Dialogs are independent; nothing here forces one-at-a-time.
type Coordinator struct {
	open     map[Name]bool
	selected map[Name]any
}

// NewCoordinator returns a coordinator with every dialog closed.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		open:     make(map[Name]bool, len(Names)),
		selected: make(map[Name]any, len(Names)),
	}
}

// Dispatch routes an intent to the matching handler.
func (c *Coordinator) Dispatch(in Intent) error {
	switch in.Action {
	case ActionOpen:
		return c.OpenDialog(in.Dialog, in.Payload)
	case ActionClose:
		return c.CloseDialog(in.Dialog)
	case ActionCloseAll:
		c.CloseAllDialogs()
		return nil
	default:
		return fmt.Errorf("unknown dialog action %q", in.Action)
	}
}

// OpenDialog opens name and stores data as its selection. Nil data clears any previous selection.
func (c *Coordinator) OpenDialog(name Name, data any) error {
	if _, err := ParseName(string(name)); err != nil {
		return err
	}
	c.open[name] = true
	if data == nil {
		delete(c.selected, name)
		return nil
	}
	c.selected[name] = data
	return nil
}

// CloseDialog closes name and drops its selection.
func (c *Coordinator) CloseDialog(name Name) error {
	if _, err := ParseName(string(name)); err != nil {
		return err
	}
	delete(c.open, name)
	delete(c.selected, name)
	return nil
}

// CloseAllDialogs closes everything and clears every selection.
func (c *Coordinator) CloseAllDialogs() {
	c.open = make(map[Name]bool, len(Names))
	c.selected = make(map[Name]any, len(Names))
}

// IsOpen reports whether name is open.
func (c *Coordinator) IsOpen(name Name) bool {
	return c.open[name]
}

// Selection returns the data stored for name.
func (c *Coordinator) Selection(name Name) (any, bool) {
	v, ok := c.selected[name]
	return v, ok
}

// State is a serialisable view of the coordinator.
type State struct {
	Open         map[Name]bool `json:"open"`
	SelectedData map[Name]any  `json:"selectedData"`
}

// Snapshot returns every flag (closed ones included) and the current selections.
func (c *Coordinator) Snapshot() State {
	st := State{
		Open:         make(map[Name]bool, len(Names)),
		SelectedData: make(map[Name]any, len(c.selected)),
	}
	for _, n := range Names {
		st.Open[n] = c.open[n]
	}
	for n, v := range c.selected {
		st.SelectedData[n] = v
	}
	return st
}

// OpenDialogs lists open dialog names in a stable order.
func (c *Coordinator) OpenDialogs() []Name {
	out := make([]Name, 0, len(c.open))
	for n, open := range c.open {
		if open {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DayTargetOf reads a DayTarget selection.
func (c *Coordinator) DayTargetOf(name Name) (DayTarget, bool) {
	v, ok := c.selected[name]
	if !ok {
		return DayTarget{}, false
	}
	switch t := v.(type) {
	case DayTarget:
		return t, true
	case ItemTarget:
		return DayTarget{Day: t.Day}, true
	default:
		return DayTarget{}, false
	}
}

// ItemTargetOf reads an ItemTarget selection.
func (c *Coordinator) ItemTargetOf(name Name) (ItemTarget, bool) {
	t, ok := c.selected[name].(ItemTarget)
	return t, ok
}
