package main

import (
	"fmt"
	"io"
	"strconv"
)

func writeSQL(w io.Writer, warehouses []warehouseRow, products []productRow) error {
	if _, err := io.WriteString(w, "-- Catálogo inicial de bodegas y productos\n-- Generado por cmd/seed_catalog\n\n"); err != nil {
		return err
	}
	if len(warehouses) > 0 {
		fmt.Fprintln(w, "INSERT INTO warehouses (id, name, kind, city, address) VALUES")
		for i, wh := range warehouses {
			fmt.Fprintf(w, "  ('%s', '%s', '%s', '%s', '%s')%s\n",
				wh.ID, escapeSQL(wh.Name), wh.Kind, escapeSQL(wh.City), escapeSQL(wh.Address), sep(i, len(warehouses)))
		}
		fmt.Fprintln(w, "ON CONFLICT (id) DO NOTHING;")
		fmt.Fprintln(w)
	}
	if len(products) > 0 {
		fmt.Fprintln(w, "INSERT INTO products (id, name, description, price, fractionable, units_per_package) VALUES")
		for i, p := range products {
			units := "NULL"
			if p.UnitsPerPackage != nil {
				units = strconv.FormatInt(*p.UnitsPerPackage, 10)
			}
			fmt.Fprintf(w, "  ('%s', '%s', '%s', %s, %t, %s)%s\n",
				p.ID, escapeSQL(p.Name), escapeSQL(p.Description), p.Price.StringFixed(2), p.Fractionable, units, sep(i, len(products)))
		}
		fmt.Fprintln(w, "ON CONFLICT (id) DO NOTHING;")
	}
	return nil
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}
