package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dhchicaiza/registros/internal/database"
	"github.com/dhchicaiza/registros/internal/model"
	"github.com/jackc/pgx/v5"
)

const (
	createRegistroSQL = `INSERT INTO registros (nombre, mensaje) VALUES ($1, $2) RETURNING id, fecha`
	listRegistrosSQL  = `SELECT id, nombre, mensaje, fecha FROM registros ORDER BY id DESC`
	getRegistroSQL    = `SELECT id, nombre, mensaje, fecha FROM registros WHERE id = $1`
	updateRegistroSQL = `UPDATE registros SET nombre = $1, mensaje = $2 WHERE id = $3`
	deleteRegistroSQL = `DELETE FROM registros WHERE id = $1`
)

// RegistroRepository issues exactly one statement per call.
//
// Errors are returned as the driver produced them; classification happens
// in the service layer.
type RegistroRepository struct {
	base
}

func NewRegistroRepository(db database.Provider, queryTimeout time.Duration) *RegistroRepository {
	return &RegistroRepository{base{db: db, queryTimeout: queryTimeout}}
}

func (r *RegistroRepository) Create(ctx context.Context, nombre, mensaje string) (*model.Registro, error) {
	registro := &model.Registro{Nombre: nombre, Mensaje: mensaje}

	err := r.withConn(ctx, func(ctx context.Context, q database.Querier) error {
		var fecha time.Time
		if err := q.QueryRow(ctx, createRegistroSQL, nombre, mensaje).Scan(&registro.ID, &fecha); err != nil {
			return err
		}
		registro.Fecha = model.Fecha{Time: fecha}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registro, nil
}

// List returns every registro, newest id first. An empty table yields an
// empty, non-nil slice.
func (r *RegistroRepository) List(ctx context.Context) ([]model.Registro, error) {
	registros := []model.Registro{}

	err := r.withConn(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, listRegistrosSQL)
		if err != nil {
			return err
		}

		collected, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Registro, error) {
			return scanRegistro(row)
		})
		if err != nil {
			return err
		}

		registros = append(registros, collected...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registros, nil
}

// GetByID returns pgx.ErrNoRows, tagged with the table name, when no row matches.
func (r *RegistroRepository) GetByID(ctx context.Context, id int64) (*model.Registro, error) {
	var registro model.Registro

	err := r.withConn(ctx, func(ctx context.Context, q database.Querier) error {
		var err error
		registro, err = scanRegistro(q.QueryRow(ctx, getRegistroSQL, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("table:registros: %w", err)
	}

	return &registro, nil
}

// Update returns the number of rows affected, zero when id does not exist.
func (r *RegistroRepository) Update(ctx context.Context, id int64, nombre, mensaje string) (int64, error) {
	var affected int64

	err := r.withConn(ctx, func(ctx context.Context, q database.Querier) error {
		tag, err := q.Exec(ctx, updateRegistroSQL, nombre, mensaje, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	return affected, err
}

// Delete returns the number of rows affected, zero when id does not exist.
func (r *RegistroRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64

	err := r.withConn(ctx, func(ctx context.Context, q database.Querier) error {
		tag, err := q.Exec(ctx, deleteRegistroSQL, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	return affected, err
}

func scanRegistro(row pgx.Row) (model.Registro, error) {
	var (
		registro model.Registro
		fecha    time.Time
	)
	if err := row.Scan(&registro.ID, &registro.Nombre, &registro.Mensaje, &fecha); err != nil {
		return model.Registro{}, err
	}
	registro.Fecha = model.Fecha{Time: fecha}
	return registro, nil
}
