// Package settings manages the lookup entities orders refer to:
// vendors plus the themes, packages, addons and work-status lists.
// Each list lives whole under one kv key.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"undangan/internal/core"
	"undangan/internal/kv"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("settings item not found")
	ErrUnknownList = errors.New("unknown settings list")
	ErrEmptyName   = errors.New("empty name")
)

// refKeys are the lists that share the RefItem shape. Vendors carry an
// invoice code and get their own accessors.
var refKeys = map[string]struct{}{
	kv.KeyThemes:       {},
	kv.KeyPackages:     {},
	kv.KeyAddons:       {},
	kv.KeyWorkStatuses: {},
}

type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

func (s *Store) Vendors(ctx context.Context) ([]core.Vendor, error) {
	return readList[core.Vendor](ctx, s.kv, kv.KeyVendors)
}

func (s *Store) VendorByID(ctx context.Context, id string) (core.Vendor, error) {
	vendors, err := s.Vendors(ctx)
	if err != nil {
		return core.Vendor{}, err
	}
	for _, v := range vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return core.Vendor{}, ErrNotFound
}

func (s *Store) AddVendor(ctx context.Context, name, code, color string) (core.Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Vendor{}, ErrEmptyName
	}
	vendors, err := s.Vendors(ctx)
	if err != nil {
		return core.Vendor{}, err
	}
	v := core.Vendor{
		ID:    uuid.NewString(),
		Name:  name,
		Code:  strings.ToUpper(strings.TrimSpace(code)),
		Color: color,
	}
	vendors = append(vendors, v)
	if err := writeList(ctx, s.kv, kv.KeyVendors, vendors); err != nil {
		return core.Vendor{}, err
	}
	return v, nil
}

func (s *Store) UpdateVendor(ctx context.Context, updated core.Vendor) error {
	if strings.TrimSpace(updated.Name) == "" {
		return ErrEmptyName
	}
	vendors, err := s.Vendors(ctx)
	if err != nil {
		return err
	}
	for i, v := range vendors {
		if v.ID != updated.ID {
			continue
		}
		updated.Code = strings.ToUpper(strings.TrimSpace(updated.Code))
		vendors[i] = updated
		return writeList(ctx, s.kv, kv.KeyVendors, vendors)
	}
	return ErrNotFound
}

func (s *Store) DeleteVendor(ctx context.Context, id string) error {
	vendors, err := s.Vendors(ctx)
	if err != nil {
		return err
	}
	for i, v := range vendors {
		if v.ID == id {
			vendors = append(vendors[:i], vendors[i+1:]...)
			return writeList(ctx, s.kv, kv.KeyVendors, vendors)
		}
	}
	return ErrNotFound
}

// List returns one of the RefItem lists by key.
func (s *Store) List(ctx context.Context, key string) ([]core.RefItem, error) {
	if _, ok := refKeys[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownList, key)
	}
	return readList[core.RefItem](ctx, s.kv, key)
}

func (s *Store) Add(ctx context.Context, key, name, color string) (core.RefItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.RefItem{}, ErrEmptyName
	}
	items, err := s.List(ctx, key)
	if err != nil {
		return core.RefItem{}, err
	}
	item := core.RefItem{ID: uuid.NewString(), Name: name, Color: color}
	items = append(items, item)
	if err := writeList(ctx, s.kv, key, items); err != nil {
		return core.RefItem{}, err
	}
	return item, nil
}

func (s *Store) Update(ctx context.Context, key string, updated core.RefItem) error {
	if strings.TrimSpace(updated.Name) == "" {
		return ErrEmptyName
	}
	items, err := s.List(ctx, key)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == updated.ID {
			items[i] = updated
			return writeList(ctx, s.kv, key, items)
		}
	}
	return ErrNotFound
}

func (s *Store) Delete(ctx context.Context, key, id string) error {
	items, err := s.List(ctx, key)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == id {
			items = append(items[:i], items[i+1:]...)
			return writeList(ctx, s.kv, key, items)
		}
	}
	return ErrNotFound
}

func readList[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.WarnContext(ctx, "Malformed settings list, treating as empty",
			"key", key, "error", err)
		return nil, nil
	}
	return items, nil
}

func writeList[T any](ctx context.Context, store kv.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
