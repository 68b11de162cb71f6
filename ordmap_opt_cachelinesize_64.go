//go:build ordmap_opt_cachelinesize_64

package ordmap

const cacheLineSizeTag uintptr = 64
