// Command evdb loads nostr events from JSONL files into an in memory event
// database and prints the timeline of a filter list as JSONL.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/pkg/profile"

	"evdb.lol/config"
	"evdb.lol/event"
	"evdb.lol/eventstore"
	"evdb.lol/filters"
	"evdb.lol/interrupt"
	"evdb.lol/lol"
	"evdb.lol/models"
	"evdb.lol/normalize"
	"evdb.lol/units"
)

var args struct {
	Files   []string `arg:"positional" help:"JSONL files of events to load, standard input if none are given"`
	Verify  bool     `arg:"-v,--verify" help:"reject events whose id does not match their content"`
	Filters string   `arg:"-f,--filters" default:"[{}]" help:"JSON list of filters to print the timeline of"`
	History bool     `help:"include superseded versions of replaceable events in the timeline"`
	Quiet   bool     `arg:"-q,--quiet" help:"only print stats, not the timeline"`
	Relay   string   `arg:"-r,--relay" help:"relay the events were fetched from, recorded as where they were seen instead of the file name"`
}

func main() {
	var err error
	var cfg *config.C
	if cfg, err = config.New(); chk.T(err) {
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err)
		}
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(1)
	}
	if config.GetEnv() {
		config.PrintEnv(cfg, os.Stdout)
		os.Exit(0)
	}
	if config.HelpRequested() {
		config.PrintHelp(cfg, os.Stderr)
		if parser, err := arg.NewParser(arg.Config{}, &args); !chk.E(err) {
			parser.WriteHelp(os.Stderr)
		}
		os.Exit(0)
	}
	arg.MustParse(&args)
	lol.SetLogLevel(cfg.LogLevel)
	if cfg.Pprof {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		interrupt.AddHandler(p.Stop)
	}
	ff := filters.New()
	if err = ff.Unmarshal([]byte(args.Filters)); chk.E(err) {
		os.Exit(1)
	}
	p := eventstore.Params{
		KeepOldVersions: cfg.KeepOldVersions,
		TagIndexSize:    cfg.TagIndexSize,
		SlowTagScan:     cfg.SlowTagScan,
	}
	if args.Verify {
		p.Verify = func(ev *event.T) bool { return ev.CheckID() }
	}
	s := eventstore.New(p)
	source := func(name string) string {
		if u := normalize.URL(args.Relay); u != "" {
			return u
		}
		return name
	}
	var st stats
	if len(args.Files) == 0 {
		st.add(load(s, os.Stdin, source("stdin")))
	}
	for _, name := range args.Files {
		if interrupt.Requested() {
			break
		}
		var f *os.File
		if f, err = os.Open(name); chk.E(err) {
			continue
		}
		st.add(load(s, f, source(name)))
		chk.E(f.Close())
	}
	if cfg.PruneLimit > 0 {
		st.pruned = s.Prune(cfg.PruneLimit)
	}
	log.I.F("read %d lines, %d invalid, %d rejected, %d stored, %d pruned, %d tag indexes",
		st.lines, st.invalid, st.rejected, s.Count(), st.pruned, s.TagIndexes())
	if !args.Quiet {
		m := models.New(s, cfg.ModelKeepWarm)
		w := bufio.NewWriter(os.Stdout)
		cancel := m.Timeline(ff, args.History).Subscribe(func(evs event.Ts) {
			for _, ev := range evs {
				_, _ = w.Write(ev.Serialize())
				_ = w.WriteByte('\n')
			}
		})
		cancel()
		chk.E(w.Flush())
	}
	interrupt.Request()
	<-interrupt.HandlersDone
}

type stats struct {
	lines, invalid, rejected, pruned int
}

func (s *stats) add(o stats) {
	s.lines += o.lines
	s.invalid += o.invalid
	s.rejected += o.rejected
}

// load reads one event per line and adds it to the store, with the source name
// as the event's seen-on hint.
func load(s *eventstore.T, r io.Reader, source string) (st stats) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, units.Mib), 16*units.Mib)
	for scanner.Scan() {
		if interrupt.Requested() {
			return
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		st.lines++
		ev := &event.T{}
		if err := ev.UnmarshalJSON(line); err != nil {
			log.D.F("%s:%d: %s", source, st.lines, err)
			st.invalid++
			continue
		}
		if s.Add(ev, source) == nil {
			st.rejected++
		}
	}
	chk.E(scanner.Err())
	return
}
