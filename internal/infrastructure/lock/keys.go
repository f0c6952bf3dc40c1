// Package lock implementa exclusión mutua por llave de saldo (bodega+producto), en proceso o
// compartida entre instancias vía Redis.
package lock

import "sort"

// normalize ordena y quita duplicados: todas las llamadas toman las llaves en el mismo orden.
func normalize(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	n := 0
	for i, k := range out {
		if i > 0 && k == out[n-1] {
			continue
		}
		out[n] = k
		n++
	}
	return out[:n]
}
