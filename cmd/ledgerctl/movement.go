package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

const recordMovementLong = `Registra un movimiento de stock con el mismo caso de uso que la API.

ledgerctl es una vía de operador de confianza: --role y --actor se toman tal cual, sin
token, así que quien tenga acceso a la base de datos puede declararse manager y usar
--override. Para acciones de cajeros y supervisores use la API, que resuelve el actor
desde el JWT. Cada override queda registrado en el log con el actor y el rol declarados.`

func newMovementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movement",
		Short: "Movimientos de stock",
	}

	var (
		in             inventory.RecordMovementInput
		refType, refID string
	)
	record := &cobra.Command{
		Use:     "record",
		Short:   "Registra un movimiento (delta con signo)",
		Long:    recordMovementLong,
		Example: "  ledgerctl movement record --item X --store S --qty=-3 --type sale --role manager --override",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refType != "" {
				in.RefType = &refType
			}
			if refID != "" {
				in.RefID = &refID
			}

			env, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			snap, err := env.ledger.RecordMovement(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewInventorySnapshotDTO(snap))
		},
	}
	f := record.Flags()
	f.StringVar(&in.ItemID, "item", "", "ID del item (requerido)")
	f.StringVar(&in.StoreID, "store", "", "ID de la tienda (requerido)")
	f.Int64Var(&in.Quantity, "qty", 0, "Delta con signo (requerido)")
	f.StringVar(&in.Type, "type", entity.MovementTypeAdjustment, "Tipo de movimiento")
	f.StringVar(&in.Actor.Role, "role", entity.RoleClerk, "Rol del actor: admin, manager o clerk")
	f.StringVar(&in.Actor.ID, "actor", "", "ID del usuario que registra")
	f.BoolVar(&in.Override, "override", false, "Permite dejar el disponible negativo (manager/admin)")
	f.StringVar(&refType, "ref-type", "", "Tipo de documento de referencia")
	f.StringVar(&refID, "ref-id", "", "ID del documento de referencia")
	_ = record.MarkFlagRequired("item")
	_ = record.MarkFlagRequired("store")
	_ = record.MarkFlagRequired("qty")

	cmd.AddCommand(record)
	return cmd
}

func newReservationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservation",
		Short: "Reservas y ubicación",
	}

	var (
		in  inventory.UpdateReservationInput
		bin string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Actualiza la reserva si la versión sigue vigente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("bin") {
				in.Bin = &bin
			}

			env, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			snap, err := env.ledger.UpdateReservation(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewInventorySnapshotDTO(snap))
		},
	}
	f := update.Flags()
	f.StringVar(&in.ItemID, "item", "", "ID del item (requerido)")
	f.StringVar(&in.StoreID, "store", "", "ID de la tienda (requerido)")
	f.Int64Var(&in.QtyReserved, "reserved", 0, "Nueva cantidad reservada (requerido)")
	f.StringVar(&bin, "bin", "", "Nueva ubicación; si se omite se conserva la actual")
	f.StringVar(&in.ExpectedVersion, "expected", "", "updated_at leído antes, RFC 3339 (requerido)")
	_ = update.MarkFlagRequired("item")
	_ = update.MarkFlagRequired("store")
	_ = update.MarkFlagRequired("reserved")
	_ = update.MarkFlagRequired("expected")

	cmd.AddCommand(update)
	return cmd
}
