// Package callgraph builds and executes asynchronous call graphs: a DAG of
// typed callable units wired together by typed data bindings, run by a
// concurrent worker pool.
//
// # Building a graph
//
// Insert attaches a top-level, zero-argument callable to a new Graph as a
// child of its root. Connect, ConnectTo, and ConnectFromTo wire the result
// of one callable already in the graph into another: Connect as a bare
// trigger, ConnectTo as a whole value bound to one parameter slot, and
// ConnectFromTo as a projected element of a tuple-like result bound to one
// slot. Every Connect* call accepts a destination callable that hasn't been
// seen before and inserts it on the fly.
//
//	g := callgraph.New()
//	a, _ := callgraph.Insert(g, func() int { return 42 })
//	_, _ = callgraph.ConnectTo(g, a, func(i int) { fmt.Println(i) }, 0)
//
// # Running a graph
//
//	r := callgraph.NewRunner(g)
//	completion := r.Execute(context.Background())
//	if err := completion.Wait(); err != nil {
//		// a unit returned an error or panicked
//	}
//
// A Runner may Execute the same Graph more than once; the caller must await
// one run's Completion before starting the next.
package callgraph
