// seed_catalog genera un script SQL para poblar bodegas y productos a partir de las
// planillas exportadas bodegas.csv y productos.csv (UTF-8 o Latin-1, separador ; o ,).
//
// Uso: go run ./cmd/seed_catalog [bodegas.csv] [productos.csv]
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
//
// Los IDs se derivan del nombre, así que regenerar el script no duplica filas.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	warehousesPath, productsPath := "bodegas.csv", "productos.csv"
	if len(os.Args) > 1 {
		warehousesPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		productsPath = os.Args[2]
	}

	warehouses, err := readWarehouses(warehousesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer bodegas: %v\n", err)
		os.Exit(1)
	}
	products, err := readProducts(productsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer productos: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, warehouses, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d bodegas, %d productos\n", outPath, len(warehouses), len(products))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
