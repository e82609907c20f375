package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// execute runs one instruction. Any returned error other than ErrInterrupted
// is fatal.
func (vm *VM) execute(ctx context.Context, cell Cell) error {
	upper := cell.Upper()

	switch cell.Kind {
	case KindMoveH, KindMoveJ, KindMoveK, KindMoveL:
		vm.heading = moveHeadings[cell.Kind]
		if upper {
			return vm.scan()
		}
		return nil

	case KindAdd, KindReduce:
		n, err := vm.neighbor(upper)
		if err != nil {
			return err
		}
		v, err := vm.stack.Pop()
		if err != nil {
			return err
		}
		if cell.Kind == KindAdd {
			vm.stack.Push(v + n.Code)
		} else {
			vm.stack.Push(v - n.Code)
		}
		return nil

	case KindDropDupe:
		if upper {
			_, err := vm.stack.Pop()
			return err
		}
		v, err := vm.stack.Peek()
		if err != nil {
			return err
		}
		vm.stack.Push(v)
		return nil

	case KindAppend:
		n, err := vm.neighbor(upper)
		if err != nil {
			return err
		}
		vm.stack.Push(n.Code)
		return nil

	case KindCodeboxChange:
		return vm.changeCodebox(upper)

	case KindEOF:
		vm.stack.Push(Sentinel)
		return vm.changeCodebox(upper)

	case KindUserInput:
		if len(vm.pending) == 0 {
			if err := vm.refill(ctx); err != nil {
				return err
			}
			if !vm.running {
				return nil
			}
		}
		vm.stack.Push(vm.pending[0])
		vm.pending = vm.pending[1:]
		return vm.changeCodebox(upper)

	case KindPrint:
		n, err := vm.neighbor(upper)
		if err != nil {
			return err
		}
		r, ok := n.Rune()
		if !ok {
			return fmt.Errorf("%w: %d", ErrBadCharacter, n.Code)
		}
		return vm.out.WriteChar(r)

	case KindTurn:
		top, err := vm.stack.Peek()
		if err != nil {
			return err
		}
		switch {
		case !upper && top > 0:
			vm.heading = vm.heading.Right()
		case upper && top < 0:
			vm.heading = vm.heading.Left()
		}
		return nil

	case KindShebang:
		if vm.pos != Origin {
			return fmt.Errorf("%w: %s outside origin", ErrUnknownInstruction, cell)
		}
		n, err := vm.box.At(vm.pos.Add(east))
		if err != nil {
			return err
		}
		if n.Code == '!' {
			vm.heading = V2
		}
		return nil

	case KindQuit:
		vm.running = false
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownInstruction, cell)
	}
}

// neighbor reads the cell above (upper) or below the pointer.
func (vm *VM) neighbor(upper bool) (Cell, error) {
	return vm.box.At(vm.neighborCoord(upper))
}

func (vm *VM) neighborCoord(upper bool) Coord {
	if upper {
		return vm.pos.Add(north)
	}
	return vm.pos.Add(south)
}

// changeCodebox pops the top value and writes it as an instruction into the
// neighbor cell.
func (vm *VM) changeCodebox(upper bool) error {
	target := vm.neighborCoord(upper)
	if !vm.box.Contains(target) {
		return fmt.Errorf("%w: write to %s", ErrOutOfBounds, target)
	}
	v, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	return vm.box.Set(target, Decode(v))
}

// scan moves along the current heading without executing anything until the
// cell under the pointer equals the top of the stack. It always moves at
// least once and fails when it runs off the codebox.
func (vm *VM) scan() error {
	for {
		vm.advance()
		cell, err := vm.box.At(vm.pos)
		if err != nil {
			return err
		}
		top, err := vm.stack.Peek()
		if err != nil {
			return err
		}
		if cell.Code == top {
			return nil
		}
	}
}

// refill loads the next input line into the pending buffer, followed by the
// sentinel. End of stream yields a lone sentinel once; reaching it again stops
// the run gracefully.
func (vm *VM) refill(ctx context.Context) error {
	line, err := vm.in.ReadLine(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrInterrupted
	case errors.Is(err, io.EOF):
		if vm.inputEOF && line == "" {
			vm.log.Infof("input exhausted at step %d", vm.steps)
			vm.running = false
			return nil
		}
		vm.inputEOF = true
	default:
		return fmt.Errorf("reading input: %w", err)
	}

	for _, r := range line {
		vm.pending = append(vm.pending, int(r))
	}
	vm.pending = append(vm.pending, Sentinel)
	return nil
}
