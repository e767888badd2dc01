// Package store provides RecordStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/portfolio"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	people   map[portfolio.PersonID]portfolio.Person
	rates    map[portfolio.PersonID][]portfolio.Rate
	personal map[portfolio.PersonID][]portfolio.RecurringCost
	products map[portfolio.ProductID]portfolio.Product
	tasks    map[portfolio.ProductID][]portfolio.Task
	costs    map[portfolio.ProductID][]portfolio.RecurringCost
	savings  map[portfolio.ProductID][]portfolio.RecurringCost
	budgets  map[portfolio.ProductID][]portfolio.Budget
	groups   map[portfolio.GroupID]portfolio.ProductGroup
	clients  map[portfolio.ClientID]portfolio.Client
	order    []portfolio.ProductID
}

func NewMemory() *Memory {
	return &Memory{
		people:   make(map[portfolio.PersonID]portfolio.Person),
		rates:    make(map[portfolio.PersonID][]portfolio.Rate),
		personal: make(map[portfolio.PersonID][]portfolio.RecurringCost),
		products: make(map[portfolio.ProductID]portfolio.Product),
		tasks:    make(map[portfolio.ProductID][]portfolio.Task),
		costs:    make(map[portfolio.ProductID][]portfolio.RecurringCost),
		savings:  make(map[portfolio.ProductID][]portfolio.RecurringCost),
		budgets:  make(map[portfolio.ProductID][]portfolio.Budget),
		groups:   make(map[portfolio.GroupID]portfolio.ProductGroup),
		clients:  make(map[portfolio.ClientID]portfolio.Client),
	}
}

// -----------------------------------------------------------------------------
// RecordWriter
// -----------------------------------------------------------------------------

func (m *Memory) PutPerson(_ context.Context, p portfolio.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people[p.ID] = p
	return nil
}

func (m *Memory) PutRate(_ context.Context, r portfolio.Rate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rates := append(m.rates[r.PersonID], r)
	portfolio.SortRates(rates)
	m.rates[r.PersonID] = rates
	return nil
}

func (m *Memory) PutCost(_ context.Context, c portfolio.RecurringCost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch c.Owner {
	case portfolio.OwnerPerson:
		id := portfolio.PersonID(c.OwnerID)
		m.personal[id] = append(m.personal[id], c)
	default:
		id := portfolio.ProductID(c.OwnerID)
		m.costs[id] = append(m.costs[id], c)
	}
	return nil
}

func (m *Memory) PutSaving(_ context.Context, c portfolio.RecurringCost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := portfolio.ProductID(c.OwnerID)
	m.savings[id] = append(m.savings[id], c)
	return nil
}

func (m *Memory) PutTask(_ context.Context, t portfolio.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ProductID] = append(m.tasks[t.ProductID], t)
	return nil
}

func (m *Memory) PutBudget(_ context.Context, b portfolio.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	budgets := append(m.budgets[b.ProductID], b)
	portfolio.SortBudgets(budgets)
	m.budgets[b.ProductID] = budgets
	return nil
}

func (m *Memory) PutProduct(_ context.Context, p portfolio.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.products[p.ID]; !exists {
		m.order = append(m.order, p.ID)
	}
	m.products[p.ID] = p
	return nil
}

func (m *Memory) PutGroup(_ context.Context, g portfolio.ProductGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID] = g
	return nil
}

func (m *Memory) PutClient(_ context.Context, c portfolio.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	return nil
}

// -----------------------------------------------------------------------------
// RecordStore
// -----------------------------------------------------------------------------

func (m *Memory) Person(_ context.Context, id portfolio.PersonID) (portfolio.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.people[id]
	if !ok {
		return portfolio.Person{}, portfolio.ErrPersonNotFound
	}
	return p, nil
}

func (m *Memory) RatesForPerson(_ context.Context, id portfolio.PersonID) ([]portfolio.Rate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]portfolio.Rate(nil), m.rates[id]...), nil
}

func (m *Memory) CostsForPerson(_ context.Context, id portfolio.PersonID) ([]portfolio.RecurringCost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]portfolio.RecurringCost(nil), m.personal[id]...), nil
}

func (m *Memory) Product(_ context.Context, id portfolio.ProductID) (portfolio.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return portfolio.Product{}, portfolio.ErrProductNotFound
	}
	return p, nil
}

func (m *Memory) Products(_ context.Context) ([]portfolio.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	products := make([]portfolio.Product, 0, len(m.order))
	for _, id := range m.order {
		products = append(products, m.products[id])
	}
	return products, nil
}

func (m *Memory) TasksForProduct(_ context.Context, id portfolio.ProductID, window *finance.TimeWindow) ([]portfolio.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tasks []portfolio.Task
	for _, t := range m.tasks[id] {
		if window != nil {
			_, ok, err := finance.Overlap(t.Window(), *window)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (m *Memory) CostsForProduct(_ context.Context, id portfolio.ProductID) ([]portfolio.RecurringCost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]portfolio.RecurringCost(nil), m.costs[id]...), nil
}

func (m *Memory) SavingsForProduct(_ context.Context, id portfolio.ProductID) ([]portfolio.RecurringCost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]portfolio.RecurringCost(nil), m.savings[id]...), nil
}

func (m *Memory) BudgetsForProduct(_ context.Context, id portfolio.ProductID) ([]portfolio.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]portfolio.Budget(nil), m.budgets[id]...), nil
}

func (m *Memory) Group(_ context.Context, id portfolio.GroupID) (portfolio.ProductGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return portfolio.ProductGroup{}, portfolio.ErrGroupNotFound
	}
	return g, nil
}

func (m *Memory) Client(_ context.Context, id portfolio.ClientID) (portfolio.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return portfolio.Client{}, portfolio.ErrClientNotFound
	}
	return c, nil
}
