// seed carga datos de ejemplo (clientes, proveedores, productos y saldos iniciales)
// en la base PostgreSQL configurada e imprime un JWT de desarrollo para el actor.
//
// Uso: go run ./cmd/seed [actor_id] [rol]
// Por defecto actor "dev-admin" con rol "admin". Cada ejecución inserta un juego nuevo.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/seed"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/jwt"
)

func main() {
	actorID, role := "dev-admin", "admin"
	if len(os.Args) > 1 {
		actorID = os.Args[1]
	}
	if len(os.Args) > 2 {
		role = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Driver != "postgres" {
		fmt.Fprintln(os.Stderr, "seed requiere DB_DRIVER=postgres (el modo memory ya carga datos de ejemplo al iniciar la API)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	txRunner := postgres.NewTxRunner(pool)
	res, err := seed.Demo(ctx, usecase.NewCatalogUseCase(txRunner), inventory.NewLedgerUseCase(txRunner), actorID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Datos de ejemplo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clientes:    %s\n", strings.Join(res.ClientIDs, ", "))
	fmt.Printf("Proveedores: %s\n", strings.Join(res.SupplierIDs, ", "))
	fmt.Printf("Productos:   %s\n", strings.Join(res.ProductIDs, ", "))
	fmt.Printf("Movimientos de saldo inicial: %d\n", res.Movements)

	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET vacío: no se genera token")
		return
	}
	token, err := jwt.Generate(cfg.JWT.Secret, jwt.Actor{ID: actorID, Role: role}, cfg.JWT.Issuer,
		time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nAuthorization: Bearer %s\n", token)
}
