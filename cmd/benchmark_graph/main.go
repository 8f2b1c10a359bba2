package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/delaneyj/deepwatch/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func main() {
	log.Print("Starting dependency graph benchmark, please wait...")
	defer log.Print("Finished dependency graph benchmark")

	perfTestCfgs := []benchmarkTestConfig{
		{
			name:           "simple component",
			width:          10,
			staticFraction: 1,
			nSources:       2,
			totalLayers:    5,
			readFraction:   0.2,
			iterations:     60000,
		},
		{
			name:           "dynamic component",
			width:          10,
			totalLayers:    10,
			staticFraction: 0.75,
			nSources:       6,
			readFraction:   0.2,
			iterations:     15000,
		},
		{
			name:           "large web app",
			width:          1000,
			totalLayers:    12,
			staticFraction: 0.95,
			nSources:       4,
			readFraction:   1,
			iterations:     700,
		},
		{
			name:           "wide dense",
			width:          1000,
			totalLayers:    5,
			staticFraction: 1,
			nSources:       25,
			readFraction:   1,
			iterations:     300,
		},
		{
			name:           "deep",
			width:          5,
			totalLayers:    500,
			staticFraction: 1,
			nSources:       3,
			readFraction:   1,
			iterations:     500,
		},
		{
			name:           "very dynamic",
			width:          100,
			totalLayers:    15,
			staticFraction: 0.5,
			nSources:       6,
			readFraction:   1,
			iterations:     2000,
		},
	}

	type results struct {
		sum      int
		count    int64
		duration time.Duration
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "updateRate", "title",
	})

	testRepeats := 5
	for _, cfg := range perfTestCfgs {
		log.Printf("Running '%s' config", cfg.name)
		rt := reactive.CreateRuntime(reactive.WithErrorHandler(func(err error, w *reactive.Watcher, info string) {
			log.Panic(err)
		}))
		counter := new(int64)
		graph := benchmarkMakeGraph(rt, &benchmarkMakeGraphConfig{
			counter:        counter,
			width:          cfg.width,
			totalLayers:    cfg.totalLayers,
			nSources:       cfg.nSources,
			staticFraction: cfg.staticFraction,
		})

		runOnce := func() int {
			return benchmarkRunGraph(graph, cfg.iterations, cfg.readFraction)
		}
		// run once to warm up
		runOnce()

		best := &results{duration: time.Hour}
		for i := 0; i < testRepeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.name, i+1, testRepeats, (i+1)*100/testRepeats)
			*counter = 0
			start := time.Now()
			sum := runOnce()
			duration := time.Since(start)

			if duration < best.duration {
				best.duration = duration
				best.sum = sum
				best.count = *counter
			}
		}

		makeTitle := func() string {
			sb := strings.Builder{}
			sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources))
			if cfg.staticFraction < 1 {
				sb.WriteString(" dynamic")
			}
			if cfg.readFraction < 1 {
				sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.readFraction))
			}
			return sb.String()
		}

		updateRate := float64(best.count) / (float64(best.duration) / float64(time.Millisecond))

		table.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(best.duration),
			humanize.Comma(int64(updateRate)),
			makeTitle(),
		})
	}
	table.Render()
}

type benchmarkTestConfig struct {
	name           string  // friendly name for the test, should be unique
	width          int64   // width of dependency graph to construct
	totalLayers    int64   // depth of dependency graph to construct
	staticFraction float64 // fraction of nodes that always read all of their sources
	nSources       int64   // number of sources each node reads
	readFraction   float64 // fraction of leaves read in each iteration
	iterations     int64
}

// node is one vertex of the graph: a key on the observed sources object or
// a lazy watcher standing in for a computed property.
type node interface {
	Read() int
}

type sourceNode struct {
	obj *reactive.Object
	key string
}

func (n *sourceNode) Read() int {
	return n.obj.Get(n.key).(int)
}

func (n *sourceNode) Write(v int) {
	if err := n.obj.Set(n.key, v); err != nil {
		log.Panic(err)
	}
}

type computedNode struct {
	rt *reactive.Runtime
	w  *reactive.Watcher
}

func (n *computedNode) Read() int {
	if n.w.Dirty() {
		if err := n.w.Evaluate(); err != nil {
			log.Panic(err)
		}
	}
	if n.rt.Target() != nil {
		n.w.Depend()
	}
	return n.w.Value().(int)
}

type benchmarkGraph struct {
	sources []*sourceNode
	layers  [][]node
}

type benchmarkMakeGraphConfig struct {
	counter                      *int64
	width, totalLayers, nSources int64
	staticFraction               float64
}

func benchmarkMakeGraph(rt *reactive.Runtime, cfg *benchmarkMakeGraphConfig) *benchmarkGraph {
	obj := reactive.NewObject()
	sources := make([]*sourceNode, cfg.width)
	prevRow := make([]node, cfg.width)
	for i := range sources {
		key := "s" + strconv.Itoa(i)
		obj.Set(key, i)
		sources[i] = &sourceNode{obj: obj, key: key}
		prevRow[i] = sources[i]
	}
	reactive.Observe(rt, obj, true)

	graph := &benchmarkGraph{sources: sources}
	random := rand.New(rand.NewSource(0))
	for l := int64(0); l < cfg.totalLayers-1; l++ {
		row := makeBenchmarkRow(rt, &benchmarkRowConfig{
			sources:        prevRow,
			counter:        cfg.counter,
			staticFraction: cfg.staticFraction,
			nSources:       cfg.nSources,
			rand:           random,
		})
		graph.layers = append(graph.layers, row)
		prevRow = row
	}
	return graph
}

// benchmarkRunGraph writes one source per iteration and reads some or all of
// the leaves, returning the sum of the leaves read at the end.
func benchmarkRunGraph(graph *benchmarkGraph, iterations int64, readFraction float64) int {
	random := rand.New(rand.NewSource(0))
	leaves := graph.layers[len(graph.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - readFraction)))
	readLeaves := benchmarkRemoveElems(leaves, skipCount, random)

	for i := 0; i < int(iterations); i++ {
		sourceDex := i % len(graph.sources)
		graph.sources[sourceDex].Write(i + sourceDex)

		for _, leaf := range readLeaves {
			leaf.Read()
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.Read()
	}
	return sum
}

func benchmarkRemoveElems[T any](src []T, rmCount int, rand *rand.Rand) []T {
	copyWithRemovals := make([]T, len(src))
	copy(copyWithRemovals, src)
	for i := 0; i < rmCount; i++ {
		rmDex := rand.Intn(len(copyWithRemovals))
		copyWithRemovals[rmDex] = copyWithRemovals[len(copyWithRemovals)-1]
		copyWithRemovals = copyWithRemovals[:len(copyWithRemovals)-1]
	}
	return copyWithRemovals
}

type benchmarkRowConfig struct {
	sources        []node
	counter        *int64
	staticFraction float64
	nSources       int64
	rand           *rand.Rand
}

func makeBenchmarkRow(rt *reactive.Runtime, cfg *benchmarkRowConfig) []node {
	row := make([]node, len(cfg.sources))

	for myDex := range cfg.sources {
		mySources := make([]node, 0, cfg.nSources)
		for sourceDex := 0; sourceDex < int(cfg.nSources); sourceDex++ {
			mySources = append(mySources, cfg.sources[(myDex+sourceDex)%len(cfg.sources)])
		}

		var fn func() any
		if cfg.rand.Float64() < cfg.staticFraction {
			fn = func() any {
				*cfg.counter++
				sum := 0
				for _, source := range mySources {
					sum += source.Read()
				}
				return sum
			}
		} else {
			// dynamic node, drops one of its sources depending on the first
			first := mySources[0]
			tail := mySources[1:]
			fn = func() any {
				*cfg.counter++
				sum := first.Read()
				shouldDrop := sum&0x1 > 0
				dropDex := sum % len(tail)

				for i := 0; i < len(tail); i++ {
					if shouldDrop && i == dropDex {
						continue
					}
					sum += tail[i].Read()
				}
				return sum
			}
		}

		w, err := reactive.NewWatcher(rt, nil, fn, nil, &reactive.WatcherOptions{Lazy: true})
		if err != nil {
			log.Panic(err)
		}
		row[myDex] = &computedNode{rt: rt, w: w}
	}
	return row
}
