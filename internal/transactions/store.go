// Package transactions persists expense/income entries. Unlike orders,
// the partition is chosen by the query scope in effect at write time
// (transactions_<year>_<month>, transactions_<year>, transactions_<month>
// or transactions_all) and records never move partitions on edit. That
// asymmetry is deliberate; see DESIGN.md.
package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"undangan/internal/core"
	"undangan/internal/kv"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("transaction not found")

// Publisher emits partition-change events after a successful mutation.
type Publisher interface {
	PublishPartitionChanged(ctx context.Context, key, kind string, year, month int) error
}

// Scope selects a partition. Zero values mean "all" for that dimension.
type Scope struct {
	Year  int
	Month int
}

// Key returns the partition key for the scope.
func (sc Scope) Key() string {
	switch {
	case sc.Year != 0 && sc.Month != 0:
		name, err := core.MonthName(sc.Month)
		if err != nil {
			return kv.TransactionsPrefix + "all"
		}
		return fmt.Sprintf("%s%d_%s", kv.TransactionsPrefix, sc.Year, name)
	case sc.Year != 0:
		return fmt.Sprintf("%s%d", kv.TransactionsPrefix, sc.Year)
	case sc.Month != 0:
		name, err := core.MonthName(sc.Month)
		if err != nil {
			return kv.TransactionsPrefix + "all"
		}
		return kv.TransactionsPrefix + name
	default:
		return kv.TransactionsPrefix + "all"
	}
}

type Store struct {
	kv     kv.Store
	events Publisher
}

// Input is a transaction as entered. Amount and Budget may arrive as
// formatted strings from the client; Money coerces them numeric so the
// stored form is always a number.
type Input struct {
	Date        core.Date            `json:"date"`
	Type        core.TransactionType `json:"type"`
	Description string               `json:"description"`
	Amount      core.Money           `json:"amount"`
	CategoryID  string               `json:"categoryId"`
	Budget      core.Money           `json:"budget"`
	IsPaid      bool                 `json:"isPaid"`
}

// Patch carries partial edits; nil fields keep their current value.
type Patch struct {
	Date        *core.Date            `json:"date"`
	Type        *core.TransactionType `json:"type"`
	Description *string               `json:"description"`
	Amount      *core.Money           `json:"amount"`
	CategoryID  *string               `json:"categoryId"`
	Budget      *core.Money           `json:"budget"`
	IsPaid      *bool                 `json:"isPaid"`
}

func New(store kv.Store, events Publisher) *Store {
	return &Store{kv: store, events: events}
}

// List returns the partition for the scope. Aggregates over the result
// are computed fresh by the ledger package, never cached here.
func (s *Store) List(ctx context.Context, sc Scope) ([]core.Transaction, error) {
	return s.readPartition(ctx, sc)
}

func (s *Store) Add(ctx context.Context, sc Scope, in Input) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Type:        in.Type,
		Description: in.Description,
		Amount:      in.Amount,
		CategoryID:  in.CategoryID,
		Budget:      in.Budget,
		IsPaid:      in.IsPaid,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	records, err := s.readPartition(ctx, sc)
	if err != nil {
		return core.Transaction{}, err
	}
	records = append(records, tx)
	if err := s.writePartition(ctx, sc, records); err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, sc)
	return tx, nil
}

// Update merges the patch into the record in place. The record stays in
// the scope's partition even when its date changes.
func (s *Store) Update(ctx context.Context, sc Scope, id string, p Patch) (core.Transaction, error) {
	records, err := s.readPartition(ctx, sc)
	if err != nil {
		return core.Transaction{}, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return core.Transaction{}, ErrNotFound
	}

	tx := records[idx]
	applyPatch(&tx, p)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	records[idx] = tx
	if err := s.writePartition(ctx, sc, records); err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, sc)
	return tx, nil
}

// TogglePaid flips the paid flag and nothing else.
func (s *Store) TogglePaid(ctx context.Context, sc Scope, id string) (core.Transaction, error) {
	records, err := s.readPartition(ctx, sc)
	if err != nil {
		return core.Transaction{}, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return core.Transaction{}, ErrNotFound
	}
	records[idx].IsPaid = !records[idx].IsPaid
	if err := s.writePartition(ctx, sc, records); err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, sc)
	return records[idx], nil
}

func (s *Store) Delete(ctx context.Context, sc Scope, id string) error {
	records, err := s.readPartition(ctx, sc)
	if err != nil {
		return err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return ErrNotFound
	}
	remaining := append(records[:idx], records[idx+1:]...)
	if err := s.writePartition(ctx, sc, remaining); err != nil {
		return err
	}
	s.publish(ctx, sc)
	return nil
}

func indexOf(records []core.Transaction, id string) int {
	for i, tx := range records {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) readPartition(ctx context.Context, sc Scope) ([]core.Transaction, error) {
	key := sc.Key()
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read partition %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var records []core.Transaction
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		slog.WarnContext(ctx, "Malformed transaction partition, treating as empty",
			"partition", key, "error", err)
		return nil, nil
	}
	return records, nil
}

func (s *Store) writePartition(ctx context.Context, sc Scope, records []core.Transaction) error {
	key := sc.Key()
	if records == nil {
		records = []core.Transaction{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal partition %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write partition %s: %w", key, err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, sc Scope) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPartitionChanged(ctx, sc.Key(), "transactions", sc.Year, sc.Month); err != nil {
		slog.WarnContext(ctx, "Failed to publish partition change",
			"partition", sc.Key(), "error", err)
	}
}

func applyPatch(tx *core.Transaction, p Patch) {
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.CategoryID != nil {
		tx.CategoryID = *p.CategoryID
	}
	if p.Budget != nil {
		tx.Budget = *p.Budget
	}
	if p.IsPaid != nil {
		tx.IsPaid = *p.IsPaid
	}
}
