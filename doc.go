// Package gridpath computes, explains and replays shortest and cheapest
// routes between two cells of a terrain-weighted grid.
//
// What is in the box?
//
//	topology/  square, triangle and hexagonal row profiles and adjacency
//	terrain/   cell kinds, the soft and hard cost tables, walkability
//	grid/      immutable grid snapshots with copy-on-write edits
//	search/    BFS, Dijkstra and A* behind one Run entry point
//	report/    per-step cost breakdown, score, saved records, re-rendering
//	playback/  cancellable, paced replay of a result over an overlay
//	session/   one user's grid, markers, results and scheduler
//	obstacle/  seeded obstacle scattering and maze generation
//
// The daemon in cmd/gridpathd serves all of it over HTTP and WebSocket,
// stores saved paths in memory or PostgreSQL and can mirror playback frames
// to an MQTT broker.
//
// Quick start:
//
//	start, end := topology.Position{Row: 0, Col: 0}, topology.Position{Row: 9, Col: 9}
//	g, _ := grid.New(topology.Square, 10)
//	g, _ = g.With(start, terrain.Start)
//	g, _ = g.With(end, terrain.End)
//	res, _ := search.Run(g, start, end, search.AStar, search.WithOverrideMud(true))
//	fmt.Println(report.Assemble(res, terrain.Hard()).Score)
//
// The search is a pure function of its inputs; nothing in the core packages
// logs, sleeps or persists.
package gridpath
