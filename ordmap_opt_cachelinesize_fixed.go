//go:build ordmap_opt_cachelinesize_64 || ordmap_opt_cachelinesize_128

package ordmap

// CacheLineSize pinned at build time, for reproducible arena growth
// across machines.
const CacheLineSize = cacheLineSizeTag
