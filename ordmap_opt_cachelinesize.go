//go:build !ordmap_opt_cachelinesize_64 && !ordmap_opt_cachelinesize_128

package ordmap

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the unit the entry arena grows by.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
