package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planning_backend/internal/shared/audit"
)

// ErrNotFound is returned when a row does not exist or has been soft-deleted.
var ErrNotFound = errors.New("record not found")

// CRUD is the capability set shared by every domain repository.
type CRUD[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
}

// Entity is satisfied by pointers to structs that embed audit.Fields and expose their key.
type Entity[T any] interface {
	*T
	GetID() uint
	Audit() *audit.Fields
}

// Cascade runs inside the delete transaction after the parent row is soft-deleted.
type Cascade func(tx *gorm.DB, parentID uint, actor string, now time.Time) error

// CascadeSoftDelete soft-deletes the live rows of table whose column references the parent.
func CascadeSoftDelete(table, column string) Cascade {
	return func(tx *gorm.DB, parentID uint, actor string, now time.Time) error {
		return tx.Table(table).
			Where(column+" = ? AND deleted = ?", parentID, false).
			Updates(map[string]any{
				"deleted":       true,
				"modified_by":   actor,
				"date_modified": now,
			}).Error
	}
}

type Option func(*options)

type options struct {
	now      func() time.Time
	cascades []Cascade
}

// WithClock overrides the audit clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCascade registers a child soft-delete to run on Delete.
func WithCascade(c Cascade) Option {
	return func(o *options) { o.cascades = append(o.cascades, c) }
}

// Repository implements CRUD over a GORM table with audit stamping and soft delete.
// Every read excludes rows flagged as deleted.
type Repository[T any, PT Entity[T]] struct {
	db   *gorm.DB
	opts options
}

func NewRepository[T any, PT Entity[T]](db *gorm.DB, opts ...Option) *Repository[T, PT] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T, PT]{db: db, opts: o}
}

// DB returns the underlying connection for feature-specific queries.
func (r *Repository[T, PT]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[T, PT]) now() time.Time {
	return r.opts.now().UTC()
}

func (r *Repository[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[T, PT]) GetByID(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Add stamps the creation audit fields and inserts the row. The generated id is written back.
func (r *Repository[T, PT]) Add(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity is nil")
	}
	PT(entity).Audit().MarkCreated(audit.ActorFrom(ctx), r.now())
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

// Update replaces every column of a live row except the creation stamp.
func (r *Repository[T, PT]) Update(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity is nil")
	}
	e := PT(entity)
	if e.GetID() == 0 {
		return ErrNotFound
	}
	return WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var stored T
		if err := tx.Where("id = ? AND deleted = ?", e.GetID(), false).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		e.Audit().KeepCreated(*PT(&stored).Audit())
		e.Audit().MarkModified(audit.ActorFrom(ctx), r.now())

		return tx.Model(entity).
			Select("*").
			Omit("created_by", "date_created", clause.Associations).
			Updates(entity).Error
	})
}

// Delete soft-deletes a live row and runs the registered cascades in the same transaction.
func (r *Repository[T, PT]) Delete(ctx context.Context, id uint) error {
	actor := audit.ActorFrom(ctx)
	now := r.now()
	return WithTx(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(new(T)).
			Where("id = ? AND deleted = ?", id, false).
			Updates(map[string]any{
				"deleted":       true,
				"modified_by":   actor,
				"date_modified": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		for _, cascade := range r.opts.cascades {
			if err := cascade(tx, id, actor, now); err != nil {
				return err
			}
		}
		return nil
	})
}
