package core

import (
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// Fixtures
// ============================================================================

// benchCSV builds a file of n rows with a shifted id range so two files
// generated with different offsets overlap partially.
func benchCSV(n, offset int) []byte {
	var sb strings.Builder
	sb.WriteString("id,name,amount,region\n")
	for i := 0; i < n; i++ {
		id := i + offset
		fmt.Fprintf(&sb, "%d,customer %d,%d.%02d,region-%d\n", id, id, id*3, id%100, id%7)
	}
	return []byte(sb.String())
}

// ============================================================================
// Loader Benchmarks
// ============================================================================

// BenchmarkLoad_Clean benchmarks the lenient pass on well-formed input.
func BenchmarkLoad_Clean(b *testing.B) {
	data := benchCSV(10000, 0)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(data, LoadOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoad_StrictFastFallback benchmarks input whose stray quote forces
// the second pass.
func BenchmarkLoad_StrictFastFallback(b *testing.B) {
	data := append(benchCSV(10000, 0), []byte("10001,\"unterminated,1.00,region-1\n")...)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(data, LoadOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoad_Latin1 benchmarks decoding a non-UTF-8 file.
func BenchmarkLoad_Latin1(b *testing.B) {
	data := benchCSV(10000, 0)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(data, LoadOptions{Encoding: "latin-1"}); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Comparison Benchmarks
// ============================================================================

func mustLoadTable(b *testing.B, data []byte) *Table {
	b.Helper()
	res, err := Load(data, LoadOptions{})
	if err != nil {
		b.Fatal(err)
	}
	return res.Table
}

// BenchmarkCompareTables benchmarks two 10k-row tables overlapping by half.
func BenchmarkCompareTables(b *testing.B) {
	first := mustLoadTable(b, benchCSV(10000, 0))
	second := mustLoadTable(b, benchCSV(10000, 5000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CompareTables(first, second, ModeStrict); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCompareTables_Reordered benchmarks the projection path where the
// second file lists the same columns in another order.
func BenchmarkCompareTables_Reordered(b *testing.B) {
	first := mustLoadTable(b, benchCSV(10000, 0))

	src := first.Rows()
	rows := make([][]string, len(src))
	for i, r := range src {
		rows[i] = []string{r[3], r[2], r[1], r[0]}
	}
	second, err := NewTable([]string{"region", "amount", "name", "id"}, rows)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CompareTables(first, second, ModeStrict); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCombine benchmarks building the combined table.
func BenchmarkCombine(b *testing.B) {
	res, err := CompareTables(mustLoadTable(b, benchCSV(10000, 0)), mustLoadTable(b, benchCSV(10000, 5000)), ModeStrict)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Combine(res)
	}
}
