package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/deepwatch/reactive"
	"github.com/delaneyj/deepwatch/scheduler"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var profile = flag.String("cpuprofile", "default.pgo", "write a CPU profile to this file, empty to disable")

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")

	benchmarkPropagate(true)
	benchmarkBatched(true)
	benchmarkArray(true)
}

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100, 1_000}
	iters = 100
)

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendRow(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func newRuntime(opts ...reactive.Option) *reactive.Runtime {
	opts = append(opts, reactive.WithErrorHandler(func(err error, w *reactive.Watcher, info string) {
		log.Panic(err)
	}))
	return reactive.CreateRuntime(opts...)
}

// computed reads a lazy watcher the way a computed property does.
func computed(rt *reactive.Runtime, w *reactive.Watcher) int {
	if w.Dirty() {
		if err := w.Evaluate(); err != nil {
			log.Panic(err)
		}
	}
	if rt.Target() != nil {
		w.Depend()
	}
	return w.Value().(int)
}

// chains builds w chains of h lazy watchers over state.v, each ending in an
// eager watcher.
func chains(rt *reactive.Runtime, state *reactive.Object, w, h int) {
	for i := 0; i < w; i++ {
		last := func() int { return state.Get("v").(int) }
		for j := 0; j < h; j++ {
			prev := last
			lw, err := reactive.NewWatcher(rt, state, func() any {
				return prev() + 1
			}, nil, &reactive.WatcherOptions{Lazy: true})
			if err != nil {
				log.Panic(err)
			}
			last = func() int { return computed(rt, lw) }
		}

		tail := last
		if _, err := reactive.NewWatcher(rt, state, func() any {
			return tail()
		}, nil, nil); err != nil {
			log.Panic(err)
		}
	}
}

func benchmarkPropagate(shouldRender bool) {
	tbl := newTable("Propagation")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rt := newRuntime()
			state := reactive.ObjectOf("v", 1)
			reactive.Observe(rt, state, true)
			chains(rt, state, w, h)

			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := state.Set("v", state.Get("v").(int)+1); err != nil {
					log.Panic(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendRow(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkBatched(shouldRender bool) {
	tbl := newTable("Batched propagation")
	writes := 10

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			q := scheduler.New()
			rt := newRuntime(reactive.WithScheduler(q))
			state := reactive.ObjectOf("v", 1)
			reactive.Observe(rt, state, true)
			chains(rt, state, w, h)

			for i := 0; i < iters; i++ {
				start := time.Now()
				for k := 0; k < writes; k++ {
					if err := state.Set("v", state.Get("v").(int)+1); err != nil {
						log.Panic(err)
					}
				}
				if err := q.Flush(); err != nil {
					log.Panic(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendRow(tbl, fmt.Sprintf("%d writes, flush: %d * %d", writes, w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkArray(shouldRender bool) {
	tbl := newTable("Array mutation")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		rt := newRuntime()
		state := reactive.ObjectOf("items", reactive.NewArray())
		reactive.Observe(rt, state, true)
		for i := 0; i < w; i++ {
			if _, err := reactive.NewWatcher(rt, state, func() any {
				return state.Get("items").(*reactive.Array).Len()
			}, nil, nil); err != nil {
				log.Panic(err)
			}
		}

		items := state.Get("items").(*reactive.Array)
		for i := 0; i < iters; i++ {
			start := time.Now()
			if _, err := items.Push(reactive.ObjectOf("i", i)); err != nil {
				log.Panic(err)
			}
			tach.AddTime(time.Since(start))
		}

		appendRow(tbl, fmt.Sprintf("push: %d watchers", w), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}
