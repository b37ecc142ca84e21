/*
Package config loads declarative graph manifests from YAML and builds
executable graphs from them.

A manifest declares named byte buffers and a list of nodes, each naming
an op from a registry, a parameter block, and its dependencies:

	buffers:
	  src: {size: 1024}
	  dst: {size: 1024}
	nodes:
	  - id: fill
	    op: fill
	    params: {buffer: src, value: 7}
	  - id: copy
	    op: copy
	    params: {dst: dst, src: src}
	    deps: [fill]

Dependencies may only reference nodes defined earlier in the manifest, so
a valid manifest always describes an acyclic graph. Custom ops plug in
through Registry.Register:

	reg := config.NewRegistry()
	reg.Register("checksum", buildChecksum)

	m, err := config.LoadManifest("pipeline.yaml")
	res, err := config.Build(m, reg)
	err = res.Graph.ExecuteAndWait(ctx, executor.NewLocal())
*/
package config
