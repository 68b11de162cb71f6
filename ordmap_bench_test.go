package ordmap

import (
	"fmt"
	"testing"
)

var (
	benchDataSmall  [8]string
	benchData       [1 << 10]string
	benchDataMedium [4 << 10]string
)

func init() {
	for i := range benchDataSmall {
		benchDataSmall[i] = fmt.Sprintf("%b", i)
	}
	for i := range benchData {
		benchData[i] = fmt.Sprintf("%b", i)
	}
	for i := range benchDataMedium {
		benchDataMedium[i] = fmt.Sprintf("%b", i)
	}
}

func BenchmarkMapGetSmall(b *testing.B) {
	benchmarkMapGet(b, benchDataSmall[:])
}

func BenchmarkMapGet(b *testing.B) {
	benchmarkMapGet(b, benchData[:])
}

func benchmarkMapGet(b *testing.B, data []string) {
	b.ReportAllocs()
	m := NewOrdered[string, int](WithPresize(len(data)))
	for i := range data {
		_ = m.Put(data[i], i)
	}
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		_, _ = m.Get(data[i])
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkMapPutSmall(b *testing.B) {
	benchmarkMapPut(b, benchDataSmall[:])
}

func BenchmarkMapPut(b *testing.B) {
	benchmarkMapPut(b, benchData[:])
}

func benchmarkMapPut(b *testing.B, data []string) {
	b.ReportAllocs()
	m := NewOrdered[string, int]()
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		_ = m.Put(data[i], n)
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkMapPutRemove(b *testing.B) {
	b.ReportAllocs()
	data := benchData[:]
	m := NewOrdered[string, int]()
	for i := range data {
		_ = m.Put(data[i], i)
	}
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		_ = m.Remove(data[i])
		_ = m.Put(data[i], n)
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkMapRange(b *testing.B) {
	b.ReportAllocs()
	m := NewOrdered[string, int]()
	for i, k := range benchDataMedium {
		_ = m.Put(k, i)
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		sum := 0
		for _, v := range m.All() {
			sum += v
		}
		_ = sum
	}
}

func BenchmarkMapCursor(b *testing.B) {
	b.ReportAllocs()
	m := NewOrdered[string, int]()
	for i, k := range benchDataMedium {
		_ = m.Put(k, i)
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for k, ok := m.FirstKey(); ok; k, ok = m.NextKey() {
			_ = k
		}
	}
}

func BenchmarkMapClone(b *testing.B) {
	b.ReportAllocs()
	m := NewOrdered[string, int]()
	for i, k := range benchData {
		_ = m.Put(k, i)
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		c, _ := m.Clone()
		c.Destroy()
	}
}
