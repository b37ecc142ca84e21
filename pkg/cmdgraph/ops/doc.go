/*
Package ops provides ready-made node bodies for common memory and compute
operations: fills, copies, prefetch and access hints, single tasks, and
loop kernels over one- to N-dimensional iteration spaces.

Each constructor captures its arguments and returns an executor.Body, so
it slots directly into graph construction:

	g := cmdgraph.New()
	fill, _ := g.AddNode(ops.Fill(src, 42))
	_, _ = g.AddNode(ops.Copy(dst, src), fill)

Bodies check for context cancellation between iteration chunks, so long
loops stop promptly when a run is cancelled.
*/
package ops
