package vm

import (
	"fmt"
	"strings"
)

// Dump renders the codebox followed by the pointer state, for debugging.
func (vm *VM) Dump() string {
	var sb strings.Builder
	sb.WriteString(vm.box.String())
	fmt.Fprintf(&sb, "Position: %s\n", vm.pos)
	fmt.Fprintf(&sb, "Heading: %s\n", vm.heading)
	fmt.Fprintf(&sb, "Stack: %v\n", vm.stack.items)
	if len(vm.pending) > 0 {
		fmt.Fprintf(&sb, "Pending: %v\n", vm.pending)
	}
	fmt.Fprintf(&sb, "Steps: %d\n", vm.steps)
	return sb.String()
}
