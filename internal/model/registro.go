// Package model holds the Registro entity and the request payloads of
// the registro endpoints.
package model

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// FechaLayout is the wire format of Registro.Fecha.
const FechaLayout = "2006-01-02 15:04:05"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Fecha is a creation timestamp serialized as "YYYY-MM-DD HH:MM:SS".
//
// The wall clock is written as stored: a timestamp column scans into UTC
// with the stored clock value, a timestamptz column into the server zone.
type Fecha struct {
	time.Time
}

func (f Fecha) String() string {
	return f.Format(FechaLayout)
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, f.String()), nil
}

func (f *Fecha) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	t, err := time.Parse(FechaLayout, raw)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

// Registro is a stored record. ID and Fecha are assigned by the database
// and never change.
type Registro struct {
	ID      int64  `json:"id" db:"id"`
	Nombre  string `json:"nombre" db:"nombre"`
	Mensaje string `json:"mensaje" db:"mensaje"`
	Fecha   Fecha  `json:"fecha" db:"fecha"`
}

// StatusResponse is the body of successful write operations.
type StatusResponse struct {
	Status string `json:"status"`
}

const (
	StatusCreated = "Registro creado"
	StatusUpdated = "Registro actualizado exitosamente"
	StatusDeleted = "Registro eliminado exitosamente"
)
