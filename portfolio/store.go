/*
store.go - Persistence interface for portfolio records

PURPOSE:
  Defines the read-only interface between the calculation engine and the
  record store. The engine issues window-bounded read queries and never
  mutates records; all apportionment math runs over the immutable records
  these queries return.

KEY INTERFACES:
  RecordStore:  read-only record access (what the engine needs)
  RecordWriter: record loading for seeding, sync jobs and demo data

ORDERING CONTRACT:
  RatesForPerson and BudgetsForProduct return records ordered by StartDate
  ascending; rate and budget resolution binary-search on that ordering.

IMPLEMENTATIONS:
  - portfolio/store/memory.go: in-memory, for tests and dev
  - store/sqlite/sqlite.go:    production SQLite
*/
package portfolio

import (
	"context"
	"errors"

	"github.com/warp/cost-engine/finance"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrPersonNotFound is returned when a referenced person doesn't exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrProductNotFound is returned when a referenced product doesn't exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrGroupNotFound is returned when a referenced product group doesn't exist.
	ErrGroupNotFound = errors.New("product group not found")

	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
)

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrClientNotFound)
}

// =============================================================================
// RECORD STORE - read-only access for the engine
// =============================================================================

// RecordStore is the read-only view of persisted records the engine computes
// over. Implementations must be safe for concurrent readers; the engine holds
// no shared mutable state between calls.
type RecordStore interface {
	// Person returns a person by ID.
	Person(ctx context.Context, id PersonID) (Person, error)

	// RatesForPerson returns a person's full pay history, StartDate ascending.
	RatesForPerson(ctx context.Context, id PersonID) ([]Rate, error)

	// CostsForPerson returns a person's additional recurring costs
	// (employer contributions and similar).
	CostsForPerson(ctx context.Context, id PersonID) ([]RecurringCost, error)

	// Product returns a product by ID.
	Product(ctx context.Context, id ProductID) (Product, error)

	// Products returns all known products.
	Products(ctx context.Context) ([]Product, error)

	// TasksForProduct returns the product's tasks overlapping the window;
	// a nil window means all tasks.
	TasksForProduct(ctx context.Context, id ProductID, window *finance.TimeWindow) ([]Task, error)

	// CostsForProduct returns product-level recurring costs.
	CostsForProduct(ctx context.Context, id ProductID) ([]RecurringCost, error)

	// SavingsForProduct returns the product's savings records.
	SavingsForProduct(ctx context.Context, id ProductID) ([]RecurringCost, error)

	// BudgetsForProduct returns the product's budget history, StartDate ascending.
	BudgetsForProduct(ctx context.Context, id ProductID) ([]Budget, error)

	// Group returns a product group by ID.
	Group(ctx context.Context, id GroupID) (ProductGroup, error)

	// Client returns a client (service area) by ID.
	Client(ctx context.Context, id ClientID) (Client, error)
}

// =============================================================================
// RECORD WRITER - loading records into a store
// =============================================================================

// RecordWriter loads records into a store. Used by seeding, the external
// sync job and the demo loader; the engine itself never writes.
type RecordWriter interface {
	PutPerson(ctx context.Context, p Person) error
	PutRate(ctx context.Context, r Rate) error
	PutCost(ctx context.Context, c RecurringCost) error
	PutSaving(ctx context.Context, c RecurringCost) error
	PutTask(ctx context.Context, t Task) error
	PutBudget(ctx context.Context, b Budget) error
	PutProduct(ctx context.Context, p Product) error
	PutGroup(ctx context.Context, g ProductGroup) error
	PutClient(ctx context.Context, c Client) error
}
