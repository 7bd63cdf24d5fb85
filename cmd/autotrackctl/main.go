// Package main herramienta de administración: migraciones, carga de la semilla
// en el almacén remoto y resumen del panel por consola.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/analytics"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/auth"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/bootstrap"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/postgres"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/infrastructure/seed"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/config"
	"github.com/Ashraful7679/Engine-2-Mufller/pkg/logger"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "autotrackctl",
		Short:         "Administración del taller: migraciones, semilla y resumen",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd(), seedCmd(), summaryCmd())
	return cmd
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	return cfg, log, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL (solo REMOTE_DRIVER=postgres)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Remote.Driver != config.DriverPostgres || !cfg.Remote.Configured() {
				return errors.New("migrate requiere REMOTE_DRIVER=postgres con REMOTE_URL y REMOTE_KEY")
			}
			dsn, err := postgres.ConnectionString(cfg.Remote)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(dsn); err != nil {
				return err
			}
			log.Info().Msg("migraciones aplicadas")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var hashPasswords bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copia la semilla integrada a las colecciones remotas vacías",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			remote, err := bootstrap.OpenRemote(ctx, cfg.Remote, true, log.Zerolog())
			if err != nil {
				return err
			}
			defer remote.Close()
			if remote.Store == nil {
				return errors.New("seed requiere un almacén remoto configurado")
			}
			data, err := seed.Load()
			if err != nil {
				return err
			}
			return seedRemote(ctx, remote.Store, data, hashPasswords, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&hashPasswords, "hash-passwords", true, "guardar las contraseñas de la semilla como hash bcrypt")
	return cmd
}

// seedRemote inserta las filas semilla en cada colección remota vacía.
// Las colecciones con datos no se tocan.
func seedRemote(ctx context.Context, store repository.RemoteStore, data *seed.Data, hashPasswords bool, out io.Writer) error {
	names := data.Collections()
	sort.Strings(names)
	for _, name := range names {
		existing, err := store.Select(ctx, name)
		if err != nil {
			return fmt.Errorf("leer %s: %w", name, err)
		}
		if len(existing) > 0 {
			fmt.Fprintf(out, "%-14s %d filas existentes, sin cambios\n", name, len(existing))
			continue
		}
		rows := data.Rows(name)
		if name == entity.CollectionUsers && hashPasswords {
			for _, r := range rows {
				plain, _ := r["password"].(string)
				if plain == "" {
					continue
				}
				hash, err := auth.HashPassword(plain)
				if err != nil {
					return err
				}
				r["password"] = hash
			}
		}
		if err := store.Insert(ctx, name, rows); err != nil {
			return fmt.Errorf("insertar %s: %w", name, err)
		}
		fmt.Fprintf(out, "%-14s %d filas insertadas\n", name, len(rows))
	}
	return nil
}

func summaryCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Imprime el resumen del panel tal como lo vería un usuario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			remote, err := bootstrap.OpenRemote(ctx, cfg.Remote, false, log.Zerolog())
			if err != nil {
				return err
			}
			defer remote.Close()

			data, err := seed.Load()
			if err != nil {
				return err
			}
			engine := datasync.NewEngine(datasync.EngineDeps{Remote: remote.Store, Seed: data, Logger: log.Zerolog()})
			engine.LoadAll(ctx)

			viewer, ok := engine.Users.Find(userID)
			if !ok {
				return fmt.Errorf("usuario %q no encontrado", userID)
			}
			summary := analytics.NewDashboardUseCase(engine, time.Now).GetSummary(viewer)
			printSummary(cmd.OutOrStdout(), viewer, summary)

			// Control cruzado contra SQL cuando hay conexión directa.
			if remote.Postgres != nil && viewer.IsAdmin() {
				total, err := remote.Postgres.SalesTotal(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", "Ventas (SQL)", total.StringFixed(2))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "u1", "id del usuario que mira el panel")
	return cmd
}

func printSummary(w io.Writer, viewer entity.User, s *dto.DashboardSummaryDTO) {
	fmt.Fprintf(w, "%s (%s) · %s · datos %s\n\n", viewer.Name, viewer.Role, s.TimeLabel, s.DataMode)
	fmt.Fprintf(w, "%-18s %s\n", "Ingresos", s.TotalRevenue.StringFixed(2))
	fmt.Fprintf(w, "%-18s %s\n", "  Repuestos", s.ProductRevenue.StringFixed(2))
	fmt.Fprintf(w, "%-18s %s\n", "  Mano de obra", s.ServiceRevenue.StringFixed(2))
	fmt.Fprintf(w, "%-18s %d\n", "Ventas", s.SalesCount)
	if s.IsAdmin {
		fmt.Fprintf(w, "%-18s %s\n", "Gastos", s.TotalExpenses.StringFixed(2))
		fmt.Fprintf(w, "%-18s %s\n", "Retiros", s.TotalWithdrawals.StringFixed(2))
		fmt.Fprintf(w, "%-18s %s\n", "Caja", s.CashOnHand.StringFixed(2))
		fmt.Fprintf(w, "%-18s %s\n", "Ganancia", s.TotalProfit.StringFixed(2))
	}
	if len(s.LowStock) > 0 {
		fmt.Fprintln(w, "\nStock bajo:")
		for _, p := range s.LowStock {
			fmt.Fprintf(w, "  %-10s %-32s %d\n", p.SKU, p.Name, p.Stock)
		}
	}
	fmt.Fprintln(w, "\nÚltimos 7 días:")
	for _, pt := range s.Series {
		fmt.Fprintf(w, "  %s %s  %12s\n", pt.Label, pt.Date.Format("2006-01-02"), pt.Sales.StringFixed(2))
	}
}
