package argh

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// GenerateDocs switches help rendering to long-form documentation: flags and
// commands carrying Docs text show it in place of their short description.
// Doc generators flip this before asking parsers for help output.
var GenerateDocs = false

// printHelp renders help for the parser, or for the deepest command in
// chain when one was named on the command line.
func (p *Parser) printHelp(w io.Writer, chain []*Command) {
	prog := p.prog
	for _, cmd := range chain {
		prog += " " + cmd.name
	}

	var deepest *Command
	subs := p.cmdOrder
	description := p.description
	docs := p.docs
	if len(chain) > 0 {
		deepest = chain[len(chain)-1]
		subs = deepest.cmdOrder
		description = deepest.description
		docs = deepest.docs
	}

	fmt.Fprintf(w, "usage: %s%s [options]\n", prog, usageCommandPart(subs))
	if GenerateDocs && docs != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(docs))
	} else if description != "" {
		fmt.Fprintf(w, "\n%s\n", description)
	}

	if visible := visibleCommands(subs); len(visible) > 0 {
		fmt.Fprintf(w, "\nsubcommands:\n")
		width := 0
		for _, cmd := range visible {
			if n := len(commandLabel(cmd)); n > width {
				width = n
			}
		}
		for _, cmd := range visible {
			fmt.Fprintf(w, "  %-*s  %s\n", width, commandLabel(cmd), cmd.description)
		}
	}

	flags := p.helpFlags(chain)
	if len(flags) > 0 {
		fmt.Fprintf(w, "\noptions:\n")
		width := 0
		for _, f := range flags {
			if n := len(flagLabel(f)); n > width {
				width = n
			}
		}
		for _, f := range flags {
			fmt.Fprintf(w, "  %-*s  %s\n", width, flagLabel(f), flagHelpText(f))
		}
	}
}

func usageCommandPart(subs []*Command) string {
	if len(visibleCommands(subs)) == 0 {
		return ""
	}
	return " COMMAND"
}

func visibleCommands(subs []*Command) []*Command {
	out := make([]*Command, 0, len(subs))
	for _, cmd := range subs {
		if !cmd.hidden {
			out = append(out, cmd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func commandLabel(cmd *Command) string {
	if len(cmd.aliases) == 0 {
		return cmd.name
	}
	return cmd.name + " (" + strings.Join(cmd.aliases, ", ") + ")"
}

// helpFlags collects the flags in scope for help output, most specific
// scope first.
func (p *Parser) helpFlags(chain []*Command) []*Flag {
	var flags []*Flag
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].flagOrder {
			if !f.Hidden {
				flags = append(flags, f)
			}
		}
	}
	for _, f := range p.flagOrder {
		if !f.Hidden {
			flags = append(flags, f)
		}
	}
	if p.sortedHelp {
		sort.SliceStable(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })
	}
	return flags
}

func flagLabel(f *Flag) string {
	label := "--" + f.Name
	if f.Short != 0 {
		label = fmt.Sprintf("-%c, %s", f.Short, label)
	}
	if mv := flagMetavar(f); mv != "" {
		label += " " + mv
	}
	return label
}

// flagMetavar renders the value placeholder. Comma-separated kinds show the
// repetition shape, including the prefix syntax their tokens accept.
func flagMetavar(f *Flag) string {
	base := f.Metavar
	if base == "" {
		base = strings.ToUpper(f.destName())
	}
	switch f.Type {
	case FlagTypeBool, FlagTypeCount, FlagTypeExpansion:
		return ""
	case FlagTypeCSV:
		return fmt.Sprintf("%s[,%s,...]", base, base)
	case FlagTypeCSVNegations:
		return fmt.Sprintf("%s[,-%s,...]", base, base)
	case FlagTypeCSVElements:
		return fmt.Sprintf("%s[,-%s,+%s...]", base, base, base)
	default:
		return base
	}
}

func flagHelpText(f *Flag) string {
	text := f.Description
	if GenerateDocs && f.Docs != "" {
		text = strings.TrimSpace(f.Docs)
	}
	if d := flagDefaultText(f); d != "" {
		text += " (default: " + d + ")"
	}
	return text
}

func flagDefaultText(f *Flag) string {
	if !f.defaultSet {
		return ""
	}
	switch f.Type {
	case FlagTypeString:
		return f.DefaultString
	case FlagTypeInt, FlagTypeCount:
		return fmt.Sprintf("%d", f.DefaultInt)
	case FlagTypeBool, FlagTypeStoreBool:
		if f.DefaultBool {
			return "true"
		}
		return "false"
	case FlagTypeCSV, FlagTypeCSVNegations, FlagTypeCSVElements:
		return strings.Join(f.DefaultStrings, ",")
	default:
		return ""
	}
}
