// Package vm implements the Argh! interpreter.
//
// This package contains:
//   - Coordinate and heading model
//   - Operand stack
//   - Instruction decoding (one Kind per letter, case selects the variant)
//   - The codebox, a mutable rectangular grid of instruction cells
//   - The fetch/execute/advance loop and its abort procedure
//
// Programs are laid out on a grid. The instruction pointer starts at the
// origin heading right, executes the cell under it and then advances one cell
// along its heading. Instructions may rewrite the grid, so a cell written by
// one step is live on the next visit.
package vm
