//go:build bench
// +build bench

package bodyfile

import (
	"strings"
	"testing"
)

var benchmarkLines = []struct {
	name string
	line string
}{
	{
		name: "small",
		line: "0||0||0|0|0|-1|-1|-1|-1",
	},
	{
		name: "typical",
		line: "4bad420da66571dac7f1ace995cc55c6|/Users/alice/Documents/report.docx|87915-128-1|r/rrwxrwxrwx|1003|500|126378|1645178371|1645178372|1645178373|1645178374",
	},
	{
		name: "piped name",
		line: "0|" + strings.Repeat("cmd | ", 200) + "end|0||0|0|0|-1|1645178371|-1|-1",
	},
}

func BenchmarkParse(b *testing.B) {
	for _, bm := range benchmarkLines {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(bm.line); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRecord_String(b *testing.B) {
	for _, bm := range benchmarkLines {
		b.Run(bm.name, func(b *testing.B) {
			r, err := Parse(bm.line)
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.String()
			}
		})
	}
}

func BenchmarkParse_Error(b *testing.B) {
	line := "0||0||0|0|0|-1|-1|-1|X"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(line); err == nil {
			b.Fatal("expected error")
		}
	}
}
