package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
)

func newInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Consultas de inventario",
	}

	var listStore string
	list := &cobra.Command{
		Use:   "list",
		Short: "Inventario de una tienda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			snaps, err := env.ledger.ListInventory(cmd.Context(), listStore)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tON_HAND\tRESERVED\tBIN\tUPDATED_AT")
			for _, s := range snaps {
				row := dto.NewInventorySnapshotDTO(s)
				bin := "-"
				if row.Bin != nil {
					bin = *row.Bin
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", row.ItemID, row.QtyOnHand, row.QtyReserved, bin, row.UpdatedAt)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&listStore, "store", "", "ID de la tienda (requerido)")
	_ = list.MarkFlagRequired("store")

	var getItem, getStore string
	get := &cobra.Command{
		Use:   "get",
		Short: "Snapshot de un item en una tienda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			snap, err := env.ledger.GetSnapshot(cmd.Context(), getItem, getStore)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.NewInventorySnapshotDTO(snap))
		},
	}
	get.Flags().StringVar(&getItem, "item", "", "ID del item (requerido)")
	get.Flags().StringVar(&getStore, "store", "", "ID de la tienda (requerido)")
	_ = get.MarkFlagRequired("item")
	_ = get.MarkFlagRequired("store")

	var (
		movItem, movStore string
		limit, offset     int
	)
	movements := &cobra.Command{
		Use:   "movements",
		Short: "Historial de movimientos de un item en una tienda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			movs, err := env.ledger.ListMovements(cmd.Context(), movItem, movStore, limit, offset)
			if err != nil {
				return err
			}
			out := make([]dto.StockMovementDTO, 0, len(movs))
			for _, m := range movs {
				out = append(out, dto.NewStockMovementDTO(m))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	movements.Flags().StringVar(&movItem, "item", "", "ID del item (requerido)")
	movements.Flags().StringVar(&movStore, "store", "", "ID de la tienda (requerido)")
	movements.Flags().IntVar(&limit, "limit", inventory.DefaultMovementLimit, "Máximo de filas")
	movements.Flags().IntVar(&offset, "offset", 0, "Desplazamiento")
	_ = movements.MarkFlagRequired("item")
	_ = movements.MarkFlagRequired("store")

	cmd.AddCommand(list, get, movements)
	return cmd
}
