package persistence

import (
	"testing"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	valid := []string{"Ticket", "Cliente", "pedidos_2024", "Estado Orden", "Envíos"}
	for _, name := range valid {
		assert.NoError(t, ValidateTableName(name), name)
	}

	invalid := []string{"", "1Ticket", "Ticket;DROP TABLE x", `Ticket"`, "Ticket ", "a-b", "schema.table"}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateTableName(name), ErrInvalidTableName, name)
	}
}

func TestDatabase_ReadTable(t *testing.T) {
	db := newSQLiteDatabase(t)
	ctx := t.Context()

	require.NoError(t, db.DB.Exec(`CREATE TABLE "Ticket" (
		"Id" INTEGER, "Cliente" TEXT, "Estado" TEXT, "Fecha entrega" DATE, "Direccion" TEXT
	)`).Error)
	require.NoError(t, db.DB.Exec(`INSERT INTO "Ticket" VALUES
		(1234, '7', 'Cargado', '2024-03-10', NULL),
		(5678, '8', 'Entregado', NULL, 'Av. Juárez 10')`).Error)

	t.Run("reads rows in column order", func(t *testing.T) {
		table, err := db.ReadTable(ctx, "Ticket")
		require.NoError(t, err)

		assert.Equal(t, "Ticket", table.Name)
		assert.Equal(t, []string{"Id", "Cliente", "Estado", "Fecha entrega", "Direccion"}, table.Columns)
		require.Len(t, table.Rows, 2)

		first := table.Rows[0]
		assert.Equal(t, "1234", tracking.CellText(first["Id"]))
		assert.Equal(t, "Cargado", tracking.CellText(first["Estado"]))
		assert.True(t, len(tracking.CellText(first["Fecha entrega"])) >= 10)
		assert.Equal(t, "2024-03-10", tracking.CellText(first["Fecha entrega"])[:10])
		assert.Nil(t, first["Direccion"])

		assert.Equal(t, "Av. Juárez 10", tracking.CellText(table.Rows[1]["Direccion"]))
	})

	t.Run("table names with spaces are quoted", func(t *testing.T) {
		require.NoError(t, db.DB.Exec(`CREATE TABLE "Mis Clientes" ("IdCliente" TEXT, "Nombre" TEXT)`).Error)
		require.NoError(t, db.DB.Exec(`INSERT INTO "Mis Clientes" VALUES ('7', 'Ana')`).Error)

		table, err := db.ReadTable(ctx, "Mis Clientes")
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Ana", table.Rows[0]["Nombre"])
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := db.ReadTable(ctx, "Cliente")
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("invalid name never reaches the database", func(t *testing.T) {
		_, err := db.ReadTable(ctx, `Ticket"; DROP TABLE "Ticket`)
		assert.ErrorIs(t, err, ErrInvalidTableName)
	})
}
