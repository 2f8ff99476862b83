// Package migration runs versioned schema migrations and records them in a
// batch-tracked table.
//
//	runner := migration.New(db, migrations.All())
//	ran, err := runner.Run(ctx)
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Migration interface {
	Up(tx *gorm.DB) error
	Down(tx *gorm.DB) error
}

// Named pairs a migration with its version. Names sort lexicographically in
// apply order, e.g. "0001_create_users".
type Named struct {
	Name      string
	Migration Migration
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type Runner struct {
	db         *gorm.DB
	migrations []Named
}

func New(db *gorm.DB, migrations []Named) *Runner {
	sorted := append([]Named(nil), migrations...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, migrations: sorted}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&record{})
}

func (r *Runner) applied(ctx context.Context) (map[string]record, error) {
	var ran []record
	if err := r.db.WithContext(ctx).Find(&ran).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

// Run applies every pending migration as one batch. Each migration runs in
// its own transaction together with its tracking row.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	done, err := r.applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration: fetch applied: %w", err)
	}

	var pending []Named
	for _, m := range r.migrations {
		if _, ok := done[m.Name]; !ok {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		log.Info("migration: nothing to migrate")
		return nil, nil
	}

	batch, err := r.nextBatch(ctx)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, m := range pending {
		log.WithField("name", m.Name).Info("migration: running")
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: m.Name, Batch: batch}).Error
		})
		if err != nil {
			return ran, fmt.Errorf("migration: %s up: %w", m.Name, err)
		}
		ran = append(ran, m.Name)
	}

	log.WithFields(log.Fields{"ran": len(ran), "batch": batch}).Info("migration: done")
	return ran, nil
}

// Rollback reverses the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	last, err := r.nextBatch(ctx)
	if err != nil {
		return nil, err
	}
	last--
	if last == 0 {
		return nil, nil
	}

	var records []record
	if err := r.db.WithContext(ctx).Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]Migration, len(r.migrations))
	for _, m := range r.migrations {
		byName[m.Name] = m.Migration
	}

	var rolled []string
	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return rolled, fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}
		log.WithField("name", rec.Name).Info("migration: rolling back")
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, rec.ID).Error
		})
		if err != nil {
			return rolled, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		rolled = append(rolled, rec.Name)
	}
	return rolled, nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		rec, ok := done[m.Name]
		out = append(out, Status{Name: m.Name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) nextBatch(ctx context.Context) (int, error) {
	var maxBatch struct{ Max int }
	err := r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&maxBatch).Error
	if err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return maxBatch.Max + 1, nil
}
