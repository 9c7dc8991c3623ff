// Package sparse provides the row-grouped sparse matrix consumed by the
// epoch solvers.
//
// What is a row-grouped matrix?
//
//	Rows are choices, row groups are states. A deterministic model has one
//	row per group (trivial grouping); a nondeterministic model may have
//	several rows (choices) per group (state).
//
//	    group 0 ─┬─ row 0   [ . 0.5 . ]
//	             └─ row 1   [ . . 1.0 ]
//	    group 1 ─── row 2   [ 0.3 . . ]
//
// Key features:
//   - compressed row storage with ascending columns per row,
//   - structural predicates used for epoch dispatch (EntryCount, IsIdentity,
//     HasTrivialRowGrouping, SameStructure),
//   - conversions used by the solvers (ConvertToEquationSystem,
//     SelectRowsByScheduler, ToDense for gonum-backed direct methods).
//
// Usage:
//
//	b := sparse.NewBuilder[float64](sparse.WithRowGrouping())
//	_ = b.NewRowGroup(0)
//	_ = b.AddEntry(0, 1, 0.5)
//	_ = b.AddEntry(1, 2, 1.0)
//	_ = b.NewRowGroup(2)
//	_ = b.AddEntry(2, 0, 0.3)
//	m, err := b.Build()
//
// Matrices are immutable once built and safe for concurrent readers.
package sparse
