package benchmarks

import (
	"fmt"
	"testing"

	"github.com/chrisconley/qlabel/internal"
)

func newCodec(b *testing.B) *internal.LabelCodec {
	b.Helper()
	registry, err := internal.DefaultRegistry()
	if err != nil {
		b.Fatal(err)
	}
	return internal.NewLabelCodec(registry)
}

var labelInputs = []struct {
	name string
	text string
}{
	{name: "Quantity", text: "DipStr"},
	{name: "Descriptor", text: "FCDat:Spec"},
	{name: "Transition", text: "101:len:0:X:0->1"},
	{name: "Full", text: "101:vel:1:QX:a->a:VE"},
}

func BenchmarkLabelCodec_Parse(b *testing.B) {
	codec := newCodec(b)
	for _, in := range labelInputs {
		b.Run(in.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Parse(in.text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLabel_String(b *testing.B) {
	codec := newCodec(b)
	for _, in := range labelInputs {
		label, err := codec.Parse(in.text)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(in.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = label.String()
			}
		})
	}
}

func BenchmarkLabelCodec_ParseError(b *testing.B) {
	codec := newCodec(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Parse("101:len:0:X:0-1"); err == nil {
			b.Fatal("expected error")
		}
	}
}

func BenchmarkLabelCodec_ParseSet(b *testing.B) {
	codec := newCodec(b)
	keys := []string{"301", "302", "303", "304", "305", "306"}
	for _, n := range []int{10, 100} {
		// aliases repeat the labels already requested under keys
		aliases := make(map[string]string, n)
		for i := 0; i < n; i++ {
			aliases[fmt.Sprintf("alias-%d", i)] = keys[i%len(keys)]
		}
		b.Run(fmt.Sprintf("aliases=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := codec.ParseSet(keys, aliases); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
