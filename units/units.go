// Package units names data sizes in bytes, both the base 10 ISO sizes and the
// base 2 sizes used for buffers.
package units

const (
	Kb = 1000
	Mb = Kb * 1000
	Gb = Mb * 1000

	Kib = 1 << 10
	Mib = Kib << 10
	Gib = Mib << 10
)
