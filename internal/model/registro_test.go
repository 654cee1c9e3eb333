package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func ptr(s string) *string { return &s }

func TestRegistro_JSON(t *testing.T) {
	r := Registro{
		ID:      7,
		Nombre:  "Ana",
		Mensaje: "Hola",
		Fecha:   Fecha{time.Date(2024, 3, 9, 8, 5, 1, 999, time.UTC)},
	}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":7,"nombre":"Ana","mensaje":"Hola","fecha":"2024-03-09 08:05:01"}`, string(out))
}

func TestFecha_FormatRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := time.Date(
			rapid.IntRange(1970, 2100).Draw(t, "year"),
			time.Month(rapid.IntRange(1, 12).Draw(t, "month")),
			rapid.IntRange(1, 28).Draw(t, "day"),
			rapid.IntRange(0, 23).Draw(t, "hour"),
			rapid.IntRange(0, 59).Draw(t, "minute"),
			rapid.IntRange(0, 59).Draw(t, "second"),
			0, time.UTC,
		)

		out, err := json.Marshal(Fecha{in})
		require.NoError(t, err)
		require.Len(t, string(out), len(FechaLayout)+2)

		var back Fecha
		require.NoError(t, json.Unmarshal(out, &back))
		require.True(t, in.Equal(back.Time), "%s != %s", in, back.Time)
	})
}

func TestCreateRegistroRequest_Validate(t *testing.T) {
	require.NoError(t, (&CreateRegistroRequest{Nombre: ptr("Ana"), Mensaje: ptr("Hola")}).Validate())

	// Presence is all that is checked on create.
	require.NoError(t, (&CreateRegistroRequest{Nombre: ptr(""), Mensaje: ptr("")}).Validate())

	err := (&CreateRegistroRequest{Nombre: ptr("Ana")}).Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	require.Equal(t, "Mensaje", verrs[0].Field())

	require.Error(t, (&CreateRegistroRequest{}).Validate())
}

func TestUpdateRegistroRequest_Validate(t *testing.T) {
	require.NoError(t, (&UpdateRegistroRequest{ID: 1, Nombre: "Ana", Mensaje: "Adios"}).Validate())
	require.Error(t, (&UpdateRegistroRequest{ID: 1, Nombre: "", Mensaje: "Adios"}).Validate())
	require.Error(t, (&UpdateRegistroRequest{ID: 1, Nombre: "Ana"}).Validate())
}
