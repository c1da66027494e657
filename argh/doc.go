// Package argh is a command-line argument parser with delayed value
// resolution. Beyond the usual flags and subcommands it provides:
//
//   - Delayed values: namespace attributes may hold placeholders that
//     resolve after parsing, in ascending priority order, so expensive or
//     order-dependent defaults only compute when the full invocation is
//     known.
//   - Comma-separated list flags, with optional "-" and "+" token prefixes
//     that partition values into disabled, neutral and enabled sets.
//   - Boolean flags taking explicit literals (y/yes/true, n/no/false).
//   - A default subcommand that parsing falls back to when the arguments
//     do not name one.
//   - Expansion flags that replay a fixed set of other options.
//
// Parsers are configured fluently:
//
//	p := argh.New("pkgquery", "query package metadata").
//		Version("1.0.0").
//		DefaultCommand("search")
//	p.Command("search", "search for packages").
//		CSVNegationsFlag("sets", "package sets to consider").Back().
//		Main(run)
//	p.Run(os.Args[1:])
package argh
