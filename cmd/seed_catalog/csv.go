package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Espacio de nombres para los UUID derivados del catálogo.
var catalogNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("inventario-bodegas/catalog"))

type warehouseRow struct {
	ID, Name, Kind, City, Address string
}

type productRow struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	Fractionable    bool
	UnitsPerPackage *int64
}

// readWarehouses columnas: nombre, tipo (blanca|oscura), ciudad, dirección.
func readWarehouses(path string) ([]warehouseRow, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return parseWarehouses(records)
}

func parseWarehouses(records [][]string) ([]warehouseRow, error) {
	var rows []warehouseRow
	for i, rec := range records {
		rec = pad(rec, 4)
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(rec[1]))
		if kind == "" {
			kind = "blanca"
		}
		if kind != "blanca" && kind != "oscura" {
			return nil, fmt.Errorf("fila %d: tipo de bodega %q", i+2, rec[1])
		}
		rows = append(rows, warehouseRow{
			ID:      derivedID("bodega", name),
			Name:    name,
			Kind:    kind,
			City:    strings.TrimSpace(rec[2]),
			Address: strings.TrimSpace(rec[3]),
		})
	}
	return rows, nil
}

// readProducts columnas: nombre, descripción, precio, fraccionable (si/no), unidades por paquete.
func readProducts(path string) ([]productRow, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return parseProducts(records)
}

func parseProducts(records [][]string) ([]productRow, error) {
	var rows []productRow
	for i, rec := range records {
		rec = pad(rec, 5)
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		price := decimal.Zero
		if raw := strings.TrimSpace(rec[2]); raw != "" {
			p, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("fila %d: precio %q: %w", i+2, raw, err)
			}
			price = p
		}
		row := productRow{
			ID:           derivedID("producto", name),
			Name:         name,
			Description:  strings.TrimSpace(rec[1]),
			Price:        price,
			Fractionable: parseBool(rec[3]),
		}
		if raw := strings.TrimSpace(rec[4]); row.Fractionable && raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("fila %d: unidades por paquete %q", i+2, raw)
			}
			row.UnitsPerPackage = &n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readCSV devuelve las filas sin el encabezado. Si el archivo no es UTF-8 válido se lee como Latin-1.
func readCSV(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeCSV(raw)
}

func decodeCSV(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = delimiter(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// delimiter las planillas en español suelen exportar con punto y coma.
func delimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "s", "true", "1", "x":
		return true
	}
	return false
}

func pad(rec []string, n int) []string {
	for len(rec) < n {
		rec = append(rec, "")
	}
	return rec
}

func derivedID(kind, name string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(kind+":"+strings.ToLower(name))).String()
}
