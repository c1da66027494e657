// Package benchmark compares argh's parse path against cobra and urfave/cli
// on equivalent command layouts. Run with:
//
//	go test -bench=. -benchmem ./benchmark
package benchmark

import (
	"io"
	"testing"

	"github.com/spf13/cobra"
	urfave "github.com/urfave/cli/v2"

	"github.com/pkgtools/go-argh/argh"
)

var benchArgs = []string{"run", "--port", "9090", "--targets", "a,b,c", "--verbose"}

func newArghParser() *argh.Parser {
	p := argh.New("bench", "benchmark tool").
		WithOutput(io.Discard).
		WithErrOutput(io.Discard).
		WithExit(func(int) {})
	p.Command("run", "run the workload").
		IntFlag("port", "server port").Default(8080).Back().
		CSVFlag("targets", "workload targets").Back()
	return p
}

func BenchmarkArghParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := newArghParser()
		if _, err := p.Parse(benchArgs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkArghParseReused(b *testing.B) {
	p := newArghParser()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(benchArgs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkArghParseFlagsOnly(b *testing.B) {
	p := argh.New("bench", "benchmark tool").
		WithOutput(io.Discard).
		WithErrOutput(io.Discard)
	p.CSVNegationsFlag("sets", "package sets").Back().
		StoreBoolFlag("strict", "strict mode")
	args := []string{"--sets", "-system,world", "--strict", "yes", "-vv"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(args); err != nil {
			b.Fatal(err)
		}
	}
}

func newCobraCmd() *cobra.Command {
	root := &cobra.Command{Use: "bench", SilenceUsage: true, SilenceErrors: true}
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	run := &cobra.Command{
		Use: "run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	run.Flags().Int("port", 8080, "server port")
	run.Flags().StringSlice("targets", nil, "workload targets")
	run.Flags().CountP("verbose", "v", "verbosity")
	root.AddCommand(run)
	return root
}

func BenchmarkCobraParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cmd := newCobraCmd()
		cmd.SetArgs(benchArgs)
		if err := cmd.Execute(); err != nil {
			b.Fatal(err)
		}
	}
}

func newUrfaveApp() *urfave.App {
	return &urfave.App{
		Name:      "bench",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands: []*urfave.Command{{
			Name: "run",
			Flags: []urfave.Flag{
				&urfave.IntFlag{Name: "port", Value: 8080},
				&urfave.StringSliceFlag{Name: "targets"},
				&urfave.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
			},
			Action: func(c *urfave.Context) error { return nil },
		}},
	}
}

func BenchmarkUrfaveParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		app := newUrfaveApp()
		if err := app.Run(append([]string{"bench"}, benchArgs...)); err != nil {
			b.Fatal(err)
		}
	}
}
