package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hilthontt/signals/internal/domain"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// Store is the postgres implementation of domain.Store.
type Store struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewStore(db *gorm.DB, tracer trace.Tracer) *Store {
	return &Store{
		db:     db,
		tracer: tracer,
	}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	ctx, span := s.tracer.Start(ctx, "store.Transaction")
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&tx{db: db})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction rolled back")
		return err
	}

	span.SetStatus(codes.Ok, "committed")
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type tx struct {
	db *gorm.DB
}

var _ domain.Tx = (*tx)(nil)

// translate maps gorm errors onto domain errors. notFound is returned for a
// missing record.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return err
}

func (t *tx) exists(model any, query string, args ...any) (bool, error) {
	var count int64
	if err := t.db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
