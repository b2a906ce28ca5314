// Package reconstruct turns a timed move stream into a phase-by-phase
// breakdown of a Rubik's cube solve.
//
// An analyzer is seeded with the scrambled state as a facelet string and fed
// each move with its timestamp. After every move it recomputes the stage the
// cube shows purely from piece geometry and records a new timeline entry
// whenever a higher stage is reached. Two methods are supported:
//
//   - CFOP: cross, four F2L pairs, OLL and PLL
//   - Roux: first block, second block, CMLL and the last six edges
//
// Analysis attributes time to the four buckets of the method, rescales it to
// an authoritative total and names the last-layer algorithms it recognizes.
//
// Basic usage:
//
//	a, err := reconstruct.NewCFOPAnalyzer(scrambled)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, m := range moves {
//		if err := reconstruct.FeedToken(a, m.Notation, m.Timestamp); err != nil {
//			log.Fatal(err)
//		}
//	}
//	report, err := a.Analysis(ctx, totalMs)
package reconstruct
