/*
Package sqlite provides a SQLite-backed implementation of the record store.

PURPOSE:
  Implements portfolio.RecordStore and portfolio.RecordWriter using SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  people, rates:          pay-rate history per person
  costs:                  recurring costs and savings (person- or product-owned)
  tasks:                  synchronized effort bookings
  budgets:                point-in-time budget settings
  products, clients:      aggregate containers and their service areas
  product_groups(+members)

READ-MOSTLY CONTRACT:
  The calculation engine only reads. Writes come from seeding, the demo
  loader and the external sync job, and are plain inserts; records are
  immutable facts once written.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so concurrent window
  queries from the API don't block each other.

USAGE:
  st, err := sqlite.New("./data/costdash.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()
  engine := portfolio.NewEngine(st, finance.EnglandAndWales())

SEE ALSO:
  - portfolio/store.go:        interface definitions
  - portfolio/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/portfolio"
)

// Store implements portfolio.RecordStore and portfolio.RecordWriter.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) a SQLite store at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		is_contractor INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS rates (
		person_id  TEXT NOT NULL REFERENCES people(id),
		start_date TEXT NOT NULL,
		rate       TEXT NOT NULL,
		PRIMARY KEY (person_id, start_date)
	);

	CREATE TABLE IF NOT EXISTS clients (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		client_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		person_id  TEXT NOT NULL REFERENCES people(id),
		product_id TEXT NOT NULL REFERENCES products(id),
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		days       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS costs (
		id         TEXT PRIMARY KEY,
		owner      TEXT NOT NULL,
		owner_id   TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		type       TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT,
		amount     TEXT NOT NULL,
		is_saving  INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS budgets (
		product_id TEXT NOT NULL REFERENCES products(id),
		start_date TEXT NOT NULL,
		amount     TEXT NOT NULL,
		PRIMARY KEY (product_id, start_date)
	);

	CREATE TABLE IF NOT EXISTS product_groups (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS product_group_members (
		group_id   TEXT NOT NULL REFERENCES product_groups(id),
		product_id TEXT NOT NULL REFERENCES products(id),
		position   INTEGER NOT NULL,
		PRIMARY KEY (group_id, product_id)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_product_dates ON tasks(product_id, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_costs_owner ON costs(owner, owner_id);
	CREATE INDEX IF NOT EXISTS idx_rates_person ON rates(person_id, start_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

// Dates are stored as ISO "2006-01-02" strings so lexical ordering matches
// chronological ordering; money/effort amounts as exact decimal strings.

func orUUID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// =============================================================================
// RECORD WRITER
// =============================================================================

func (s *Store) PutPerson(ctx context.Context, p portfolio.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO people (id, name, is_contractor) VALUES (?, ?, ?)`,
		string(p.ID), p.Name, p.IsContractor)
	return err
}

func (s *Store) PutRate(ctx context.Context, r portfolio.Rate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rates (person_id, start_date, rate) VALUES (?, ?, ?)`,
		string(r.PersonID), r.StartDate.String(), r.Rate.String())
	return err
}

func (s *Store) putCost(ctx context.Context, c portfolio.RecurringCost, saving bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var end *string
	if c.EndDate != nil {
		v := c.EndDate.String()
		end = &v
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO costs (id, owner, owner_id, name, type, start_date, end_date, amount, is_saving)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orUUID(c.ID), string(c.Owner), c.OwnerID, c.Name, string(c.Type),
		c.StartDate.String(), end, c.Amount.String(), saving)
	return err
}

func (s *Store) PutCost(ctx context.Context, c portfolio.RecurringCost) error {
	return s.putCost(ctx, c, false)
}

func (s *Store) PutSaving(ctx context.Context, c portfolio.RecurringCost) error {
	return s.putCost(ctx, c, true)
}

func (s *Store) PutTask(ctx context.Context, t portfolio.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tasks (id, name, person_id, product_id, start_date, end_date, days)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		orUUID(t.ID), t.Name, string(t.PersonID), string(t.ProductID),
		t.StartDate.String(), t.EndDate.String(), t.Days.String())
	return err
}

func (s *Store) PutBudget(ctx context.Context, b portfolio.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO budgets (product_id, start_date, amount) VALUES (?, ?, ?)`,
		string(b.ProductID), b.StartDate.String(), b.Amount.String())
	return err
}

func (s *Store) PutProduct(ctx context.Context, p portfolio.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO products (id, name, client_id) VALUES (?, ?, ?)`,
		string(p.ID), p.Name, string(p.ClientID))
	return err
}

func (s *Store) PutGroup(ctx context.Context, g portfolio.ProductGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO product_groups (id, name) VALUES (?, ?)`,
		string(g.ID), g.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_group_members WHERE group_id = ?`, string(g.ID)); err != nil {
		return err
	}
	for i, productID := range g.Products {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_group_members (group_id, product_id, position) VALUES (?, ?, ?)`,
			string(g.ID), string(productID), i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) PutClient(ctx context.Context, c portfolio.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO clients (id, name) VALUES (?, ?)`,
		string(c.ID), c.Name)
	return err
}

// =============================================================================
// RECORD STORE
// =============================================================================

func (s *Store) Person(ctx context.Context, id portfolio.PersonID) (portfolio.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p portfolio.Person
	var rawID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_contractor FROM people WHERE id = ?`, string(id)).
		Scan(&rawID, &p.Name, &p.IsContractor)
	if err == sql.ErrNoRows {
		return portfolio.Person{}, portfolio.ErrPersonNotFound
	}
	if err != nil {
		return portfolio.Person{}, err
	}
	p.ID = portfolio.PersonID(rawID)
	return p, nil
}

func (s *Store) RatesForPerson(ctx context.Context, id portfolio.PersonID) ([]portfolio.Rate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT person_id, start_date, rate FROM rates WHERE person_id = ? ORDER BY start_date`,
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []portfolio.Rate
	for rows.Next() {
		var personID, start, rate string
		if err := rows.Scan(&personID, &start, &rate); err != nil {
			return nil, err
		}
		startDate, err := finance.ParseDate(start)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, err
		}
		rates = append(rates, portfolio.Rate{
			PersonID:  portfolio.PersonID(personID),
			StartDate: startDate,
			Rate:      amount,
		})
	}
	return rates, rows.Err()
}

func (s *Store) CostsForPerson(ctx context.Context, id portfolio.PersonID) ([]portfolio.RecurringCost, error) {
	return s.queryCosts(ctx,
		`SELECT id, owner, owner_id, name, type, start_date, end_date, amount
		 FROM costs WHERE owner = ? AND owner_id = ? AND is_saving = 0 ORDER BY start_date`,
		string(portfolio.OwnerPerson), string(id))
}

func (s *Store) CostsForProduct(ctx context.Context, id portfolio.ProductID) ([]portfolio.RecurringCost, error) {
	return s.queryCosts(ctx,
		`SELECT id, owner, owner_id, name, type, start_date, end_date, amount
		 FROM costs WHERE owner = ? AND owner_id = ? AND is_saving = 0 ORDER BY start_date`,
		string(portfolio.OwnerProduct), string(id))
}

func (s *Store) SavingsForProduct(ctx context.Context, id portfolio.ProductID) ([]portfolio.RecurringCost, error) {
	return s.queryCosts(ctx,
		`SELECT id, owner, owner_id, name, type, start_date, end_date, amount
		 FROM costs WHERE owner = ? AND owner_id = ? AND is_saving = 1 ORDER BY start_date`,
		string(portfolio.OwnerProduct), string(id))
}

func (s *Store) queryCosts(ctx context.Context, query string, args ...any) ([]portfolio.RecurringCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var costs []portfolio.RecurringCost
	for rows.Next() {
		var c portfolio.RecurringCost
		var owner, costType, start, amount string
		var end sql.NullString
		if err := rows.Scan(&c.ID, &owner, &c.OwnerID, &c.Name, &costType, &start, &end, &amount); err != nil {
			return nil, err
		}
		c.Owner = portfolio.CostOwner(owner)
		c.Type = portfolio.CostType(costType)
		if c.StartDate, err = finance.ParseDate(start); err != nil {
			return nil, err
		}
		if end.Valid {
			endDate, err := finance.ParseDate(end.String)
			if err != nil {
				return nil, err
			}
			c.EndDate = &endDate
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		costs = append(costs, c)
	}
	return costs, rows.Err()
}

func (s *Store) Product(ctx context.Context, id portfolio.ProductID) (portfolio.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rawID, name, clientID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, client_id FROM products WHERE id = ?`, string(id)).
		Scan(&rawID, &name, &clientID)
	if err == sql.ErrNoRows {
		return portfolio.Product{}, portfolio.ErrProductNotFound
	}
	if err != nil {
		return portfolio.Product{}, err
	}
	return portfolio.Product{
		ID:       portfolio.ProductID(rawID),
		Name:     name,
		ClientID: portfolio.ClientID(clientID),
	}, nil
}

func (s *Store) Products(ctx context.Context) ([]portfolio.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, client_id FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []portfolio.Product
	for rows.Next() {
		var id, name, clientID string
		if err := rows.Scan(&id, &name, &clientID); err != nil {
			return nil, err
		}
		products = append(products, portfolio.Product{
			ID:       portfolio.ProductID(id),
			Name:     name,
			ClientID: portfolio.ClientID(clientID),
		})
	}
	return products, rows.Err()
}

func (s *Store) TasksForProduct(ctx context.Context, id portfolio.ProductID, window *finance.TimeWindow) ([]portfolio.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, name, person_id, product_id, start_date, end_date, days
	          FROM tasks WHERE product_id = ?`
	args := []any{string(id)}
	if window != nil {
		// inclusive overlap: task.start <= window.end AND task.end >= window.start;
		// ISO date strings order lexically
		query += ` AND start_date <= ? AND end_date >= ?`
		args = append(args, window.End.String(), window.Start.String())
	}
	query += ` ORDER BY start_date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []portfolio.Task
	for rows.Next() {
		var t portfolio.Task
		var personID, productID, start, end, days string
		if err := rows.Scan(&t.ID, &t.Name, &personID, &productID, &start, &end, &days); err != nil {
			return nil, err
		}
		t.PersonID = portfolio.PersonID(personID)
		t.ProductID = portfolio.ProductID(productID)
		if t.StartDate, err = finance.ParseDate(start); err != nil {
			return nil, err
		}
		if t.EndDate, err = finance.ParseDate(end); err != nil {
			return nil, err
		}
		if t.Days, err = decimal.NewFromString(days); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) BudgetsForProduct(ctx context.Context, id portfolio.ProductID) ([]portfolio.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, start_date, amount FROM budgets WHERE product_id = ? ORDER BY start_date`,
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []portfolio.Budget
	for rows.Next() {
		var productID, start, amount string
		if err := rows.Scan(&productID, &start, &amount); err != nil {
			return nil, err
		}
		startDate, err := finance.ParseDate(start)
		if err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, portfolio.Budget{
			ProductID: portfolio.ProductID(productID),
			StartDate: startDate,
			Amount:    value,
		})
	}
	return budgets, rows.Err()
}

func (s *Store) Group(ctx context.Context, id portfolio.GroupID) (portfolio.ProductGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rawID, name string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM product_groups WHERE id = ?`, string(id)).
		Scan(&rawID, &name)
	if err == sql.ErrNoRows {
		return portfolio.ProductGroup{}, portfolio.ErrGroupNotFound
	}
	if err != nil {
		return portfolio.ProductGroup{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id FROM product_group_members WHERE group_id = ? ORDER BY position`,
		string(id))
	if err != nil {
		return portfolio.ProductGroup{}, err
	}
	defer rows.Close()

	group := portfolio.ProductGroup{ID: portfolio.GroupID(rawID), Name: name}
	for rows.Next() {
		var productID string
		if err := rows.Scan(&productID); err != nil {
			return portfolio.ProductGroup{}, err
		}
		group.Products = append(group.Products, portfolio.ProductID(productID))
	}
	return group, rows.Err()
}

func (s *Store) Client(ctx context.Context, id portfolio.ClientID) (portfolio.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rawID, name string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM clients WHERE id = ?`, string(id)).
		Scan(&rawID, &name)
	if err == sql.ErrNoRows {
		return portfolio.Client{}, portfolio.ErrClientNotFound
	}
	if err != nil {
		return portfolio.Client{}, err
	}
	return portfolio.Client{ID: portfolio.ClientID(rawID), Name: name}, nil
}
