package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenIssue_FirmaConElSecretoConfigurado(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := execute(t, "token", "issue", "--user", "u-7", "--role", "Manager", "--exp", "5")
	require.NoError(t, err)

	userID, role, err := jwt.Parse("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-7", userID)
	assert.Equal(t, "manager", role)
}

func TestTokenIssue_RolDesconocido(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	_, err := execute(t, "token", "issue", "--user", "u-7", "--role", "auditor")
	assert.ErrorContains(t, err, "auditor")
}

func TestTokenIssue_SinSecreto(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "token", "issue", "--user", "u-7")
	assert.Error(t, err)
}

func TestFlagsRequeridos(t *testing.T) {
	cases := [][]string{
		{"movement", "record", "--store", "S", "--qty", "1"},
		{"reservation", "update", "--item", "X", "--store", "S", "--reserved", "1"},
		{"inventory", "list"},
		{"token", "issue"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args[:2], "_"), func(t *testing.T) {
			_, err := execute(t, args...)
			assert.ErrorContains(t, err, "required flag")
		})
	}
}

func TestMigrateDown_StepsNegativo(t *testing.T) {
	_, err := execute(t, "migrate", "down", "--steps", "-1")
	assert.ErrorContains(t, err, "--steps")
}

func TestInventoryMovements_LimitePorDefectoDelLedger(t *testing.T) {
	movements, _, err := newRootCmd().Find([]string{"inventory", "movements"})
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(inventory.DefaultMovementLimit), movements.Flags().Lookup("limit").DefValue)
}

func TestMovementRecord_AyudaAdvierteViaDeConfianza(t *testing.T) {
	record, _, err := newRootCmd().Find([]string{"movement", "record"})
	require.NoError(t, err)
	assert.Contains(t, record.Long, "operador de confianza")
	assert.Contains(t, record.Long, "--override")
}
