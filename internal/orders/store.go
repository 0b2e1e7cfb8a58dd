// Package orders persists wedding-invitation orders in monthly kv
// partitions (orders_<month>, lowercase Indonesian month names). An order
// always lives in the partition matching its current order date; edits
// that change the date move the record.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"undangan/internal/core"
	"undangan/internal/kv"

	"github.com/google/uuid"
)

// Sentinels that bypass a filter dimension in List.
const (
	YearAll  = 0
	MonthAll = 0
)

var ErrNotFound = errors.New("order not found")

// Publisher emits partition-change events after a successful mutation.
// Satisfied by the AMQP client; nil disables publishing.
type Publisher interface {
	PublishPartitionChanged(ctx context.Context, key, kind string, year, month int) error
}

type Store struct {
	kv     kv.Store
	events Publisher
	now    func() time.Time
}

// Input is an order as entered: no identifier yet, countdown derived.
type Input struct {
	ClientName    string             `json:"clientName"`
	OrderDate     core.Date          `json:"orderDate"`
	EventDate     core.Date          `json:"eventDate"`
	VendorID      string             `json:"vendorId"`
	ThemeID       string             `json:"themeId"`
	PackageID     string             `json:"packageId"`
	AddonIDs      []string           `json:"addonIds"`
	PaymentStatus core.PaymentStatus `json:"paymentStatus"`
	PaymentAmount core.Money         `json:"paymentAmount"`
	WorkStatus    string             `json:"workStatus"`
}

// Patch carries partial edits; nil fields keep their current value.
type Patch struct {
	ClientName    *string             `json:"clientName"`
	OrderDate     *core.Date          `json:"orderDate"`
	EventDate     *core.Date          `json:"eventDate"`
	VendorID      *string             `json:"vendorId"`
	ThemeID       *string             `json:"themeId"`
	PackageID     *string             `json:"packageId"`
	AddonIDs      *[]string           `json:"addonIds"`
	PaymentStatus *core.PaymentStatus `json:"paymentStatus"`
	PaymentAmount *core.Money         `json:"paymentAmount"`
	WorkStatus    *string             `json:"workStatus"`
}

func New(store kv.Store, events Publisher) *Store {
	return &Store{kv: store, events: events, now: time.Now}
}

func partitionKey(month string) string {
	return kv.OrdersPrefix + month
}

// List returns orders for the given scope. MonthAll merges all twelve
// month partitions; YearAll skips the year filter. Countdown is
// recomputed from the event date on every read.
func (s *Store) List(ctx context.Context, year, month int) ([]core.Order, error) {
	var names []string
	if month == MonthAll {
		names = core.MonthNames()
	} else {
		name, err := core.MonthName(month)
		if err != nil {
			return nil, err
		}
		names = []string{name}
	}

	now := s.now()
	var out []core.Order
	for _, name := range names {
		records, err := s.readPartition(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, o := range records {
			if year != YearAll && o.OrderDate.Year() != year {
				continue
			}
			o.CountdownDays = core.CountdownDays(o.EventDate.Time, now)
			out = append(out, o)
		}
	}
	return out, nil
}

// Add assigns an identifier and writes the order to the partition of its
// order date.
func (s *Store) Add(ctx context.Context, in Input) (core.Order, error) {
	order := core.Order{
		ID:            uuid.NewString(),
		ClientName:    in.ClientName,
		OrderDate:     in.OrderDate,
		EventDate:     in.EventDate,
		VendorID:      in.VendorID,
		ThemeID:       in.ThemeID,
		PackageID:     in.PackageID,
		AddonIDs:      in.AddonIDs,
		PaymentStatus: in.PaymentStatus,
		PaymentAmount: in.PaymentAmount,
		WorkStatus:    in.WorkStatus,
	}
	if err := order.Validate(); err != nil {
		return core.Order{}, err
	}

	name := core.MonthKey(order.OrderDate.Time)
	records, err := s.readPartition(ctx, name)
	if err != nil {
		return core.Order{}, err
	}
	records = append(records, order)
	if err := s.writePartition(ctx, name, records); err != nil {
		return core.Order{}, err
	}

	s.publish(ctx, name, order.OrderDate.Time)
	order.CountdownDays = core.CountdownDays(order.EventDate.Time, s.now())
	return order, nil
}

// Edit merges the patch into the stored order. When the order date moves
// to another month the record is written to the new partition before it
// is removed from the old one, so it is never in zero partitions.
func (s *Store) Edit(ctx context.Context, id string, p Patch) (core.Order, error) {
	oldName, records, idx, err := s.locate(ctx, id)
	if err != nil {
		return core.Order{}, err
	}

	order := records[idx]
	applyPatch(&order, p)
	if err := order.Validate(); err != nil {
		return core.Order{}, err
	}

	newName := core.MonthKey(order.OrderDate.Time)
	if newName == oldName {
		records[idx] = order
		if err := s.writePartition(ctx, oldName, records); err != nil {
			return core.Order{}, err
		}
		s.publish(ctx, oldName, order.OrderDate.Time)
	} else {
		dest, err := s.readPartition(ctx, newName)
		if err != nil {
			return core.Order{}, err
		}
		dest = append(dest, order)
		if err := s.writePartition(ctx, newName, dest); err != nil {
			return core.Order{}, err
		}
		remaining := append(records[:idx], records[idx+1:]...)
		if err := s.writePartition(ctx, oldName, remaining); err != nil {
			return core.Order{}, err
		}
		s.publish(ctx, newName, order.OrderDate.Time)
		s.publish(ctx, oldName, order.OrderDate.Time)
	}

	order.CountdownDays = core.CountdownDays(order.EventDate.Time, s.now())
	return order, nil
}

// Delete removes the order from its current partition.
func (s *Store) Delete(ctx context.Context, id string) error {
	name, records, idx, err := s.locate(ctx, id)
	if err != nil {
		return err
	}
	removed := records[idx]
	remaining := append(records[:idx], records[idx+1:]...)
	if err := s.writePartition(ctx, name, remaining); err != nil {
		return err
	}
	s.publish(ctx, name, removed.OrderDate.Time)
	return nil
}

// Get returns a single order by id.
func (s *Store) Get(ctx context.Context, id string) (core.Order, error) {
	_, records, idx, err := s.locate(ctx, id)
	if err != nil {
		return core.Order{}, err
	}
	order := records[idx]
	order.CountdownDays = core.CountdownDays(order.EventDate.Time, s.now())
	return order, nil
}

func (s *Store) locate(ctx context.Context, id string) (string, []core.Order, int, error) {
	for _, name := range core.MonthNames() {
		records, err := s.readPartition(ctx, name)
		if err != nil {
			return "", nil, 0, err
		}
		for i, o := range records {
			if o.ID == id {
				return name, records, i, nil
			}
		}
	}
	return "", nil, 0, ErrNotFound
}

// readPartition treats malformed stored JSON as an empty partition so one
// corrupt month never breaks retrieval of the others.
func (s *Store) readPartition(ctx context.Context, name string) ([]core.Order, error) {
	raw, ok, err := s.kv.Get(ctx, partitionKey(name))
	if err != nil {
		return nil, fmt.Errorf("read partition %s: %w", name, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var records []core.Order
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		slog.WarnContext(ctx, "Malformed order partition, treating as empty",
			"partition", name, "error", err)
		return nil, nil
	}
	return records, nil
}

func (s *Store) writePartition(ctx context.Context, name string, records []core.Order) error {
	if records == nil {
		records = []core.Order{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal partition %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, partitionKey(name), string(data)); err != nil {
		return fmt.Errorf("write partition %s: %w", name, err)
	}
	return nil
}

// publish is best effort: a broker outage must never fail a mutation.
func (s *Store) publish(ctx context.Context, name string, date time.Time) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPartitionChanged(ctx, partitionKey(name), "orders", date.Year(), int(date.Month())); err != nil {
		slog.WarnContext(ctx, "Failed to publish partition change",
			"partition", name, "error", err)
	}
}

func applyPatch(o *core.Order, p Patch) {
	if p.ClientName != nil {
		o.ClientName = *p.ClientName
	}
	if p.OrderDate != nil {
		o.OrderDate = *p.OrderDate
	}
	if p.EventDate != nil {
		o.EventDate = *p.EventDate
	}
	if p.VendorID != nil {
		o.VendorID = *p.VendorID
	}
	if p.ThemeID != nil {
		o.ThemeID = *p.ThemeID
	}
	if p.PackageID != nil {
		o.PackageID = *p.PackageID
	}
	if p.AddonIDs != nil {
		o.AddonIDs = *p.AddonIDs
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentAmount != nil {
		o.PaymentAmount = *p.PaymentAmount
	}
	if p.WorkStatus != nil {
		o.WorkStatus = *p.WorkStatus
	}
}
