package session

import "sort"

// ExchangeState is a read-only copy of the exchange mode.
type ExchangeState struct {
	Active bool
	Marked map[int]struct{}
}

func (s ExchangeState) IsMarked(slot int) bool {
	_, ok := s.Marked[slot]
	return ok
}

// ExchangeModel tracks exchange mode and the rack slots marked for exchange.
// Marks only exist while the mode is active.
type ExchangeModel struct {
	active bool
	marked map[int]struct{}
}

func NewExchangeModel() *ExchangeModel {
	return &ExchangeModel{marked: map[int]struct{}{}}
}

func (m *ExchangeModel) Active() bool { return m.active }

func (m *ExchangeModel) Enter() {
	m.active = true
	clear(m.marked)
}

func (m *ExchangeModel) Exit() {
	m.active = false
	clear(m.marked)
}

// Toggle enters exchange mode or leaves it.
func (m *ExchangeModel) Toggle() {
	if m.active {
		m.Exit()
		return
	}
	m.Enter()
}

// ToggleMark flips slot in the marked set. It does nothing outside exchange
// mode or for slots beyond rackLen.
func (m *ExchangeModel) ToggleMark(slot, rackLen int) bool {
	if !m.active || slot < 0 || slot >= rackLen {
		return false
	}
	if _, ok := m.marked[slot]; ok {
		delete(m.marked, slot)
	} else {
		m.marked[slot] = struct{}{}
	}
	return true
}

// Count returns how many slots are marked.
func (m *ExchangeModel) Count() int { return len(m.marked) }

// Letters returns the marked tiles of rack in slot order.
func (m *ExchangeModel) Letters(rack []string) []string {
	slots := make([]int, 0, len(m.marked))
	for slot := range m.marked {
		if slot < len(rack) {
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, rack[slot])
	}
	return out
}

// ClearMarks drops every mark but stays in exchange mode. Marks name rack
// slots, so they must not outlive the rack they were made on.
func (m *ExchangeModel) ClearMarks() {
	clear(m.marked)
}

func (m *ExchangeModel) State() ExchangeState {
	marked := make(map[int]struct{}, len(m.marked))
	for slot := range m.marked {
		marked[slot] = struct{}{}
	}
	return ExchangeState{Active: m.active, Marked: marked}
}
