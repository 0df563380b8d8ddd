package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/danass/leha/core/reconcile"
	"github.com/danass/leha/core/utils"
	"github.com/danass/leha/feature/registry/models"
)

// Store persists registry entities through gorm and implements
// reconcile.Store. Each Apply call runs inside a single transaction.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Provision creates or updates the registry schema.
func (s *Store) Provision(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrating registry schema: %w", err)
	}
	return nil
}

// FetchAll loads every row of the descriptor's table as column/text pairs.
func (s *Store) FetchAll(ctx context.Context, desc *reconcile.Descriptor) ([]map[string]string, error) {
	var raw []map[string]interface{}
	err := s.db.WithContext(ctx).
		Table(desc.Table).
		Select(desc.Columns()).
		Find(&raw).Error
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", desc.Name, err)
	}

	rows := make([]map[string]string, 0, len(raw))
	for _, r := range raw {
		row := make(map[string]string, len(r))
		for col, v := range r {
			row[col] = utils.ToString(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Apply writes one batch of changes atomically. Inserts run first, then
// updates, then deletes; any failure rolls the whole batch back.
func (s *Store) Apply(ctx context.Context, batch reconcile.Batch) error {
	desc := batch.Descriptor
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range batch.Inserts {
			if err := tx.Table(desc.Table).Create(insertRow(desc, rec)).Error; err != nil {
				return fmt.Errorf("inserting %s %s: %w", desc.Name, rec.Key, err)
			}
		}
		for _, upd := range batch.Updates {
			res := tx.Table(desc.Table).
				Where(keyClause(desc, upd.Key)).
				Updates(updateRow(upd))
			if res.Error != nil {
				return fmt.Errorf("updating %s %s: %w", desc.Name, upd.Key, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("updating %s %s: no row matched", desc.Name, upd.Key)
			}
		}
		for _, key := range batch.Deletes {
			res := tx.Table(desc.Table).
				Where(keyClause(desc, key)).
				Delete(nil)
			if res.Error != nil {
				return fmt.Errorf("deleting %s %s: %w", desc.Name, key, res.Error)
			}
		}
		return nil
	})
}

// insertRow builds the full column map for a new record. Absent values are
// stored as NULL so they read back as empty.
func insertRow(desc *reconcile.Descriptor, rec reconcile.Record) map[string]interface{} {
	row := make(map[string]interface{}, len(desc.Columns()))
	keyParts := strings.Split(rec.Key, reconcile.KeySeparator)
	for i, col := range desc.KeyColumns {
		row[col] = keyParts[i]
	}
	for _, attr := range desc.Attributes {
		v, ok := rec.Fields[attr.Column]
		if !ok || !v.Present {
			row[attr.Column] = nil
			continue
		}
		row[attr.Column] = v.Raw
	}
	return row
}

// updateRow builds the column map for the changed fields only.
func updateRow(upd reconcile.Update) map[string]interface{} {
	row := make(map[string]interface{}, len(upd.Changes))
	for _, ch := range upd.Changes {
		if !ch.New.Present {
			row[ch.Column] = nil
			continue
		}
		row[ch.Column] = ch.New.Raw
	}
	return row
}

// keyClause maps an encoded key back to its column conditions.
func keyClause(desc *reconcile.Descriptor, key string) map[string]interface{} {
	parts := strings.Split(key, reconcile.KeySeparator)
	clause := make(map[string]interface{}, len(desc.KeyColumns))
	for i, col := range desc.KeyColumns {
		clause[col] = parts[i]
	}
	return clause
}
