// Package kernelapi defines the collaborators the interrupt-arbitration core
// consumes but does not implement itself: the kernel's APC/DPC machinery,
// the IDT vector registrar, the trap-frame/IRET lifecycle, and bugcheck
// reporting. These are "out of scope" per the HAL's own design — a real
// kernel supplies its own implementation, and tests supply a recording fake.
package kernelapi

import "fmt"

// Mode distinguishes the privilege level a trap frame was taken from, used
// by the APC dispatcher to decide whether to deliver a kernel or user APC.
type Mode int

const (
	KernelMode Mode = iota
	UserMode
)

func (m Mode) String() string {
	if m == UserMode {
		return "UserMode"
	}
	return "KernelMode"
}

// TrapFrame is the minimal subset of a real trap frame needed by this core:
// enough to tell whether the interrupted context was user-mode, kernel-mode,
// or VM86 kernel-mode (which is dispatched as if it were user-mode).
type TrapFrame struct {
	SegCs  uint16
	EFlags uint32
}

// eflagsVM is the VM86 mode bit (bit 17) of EFLAGS.
const eflagsVM = 1 << 17

// modeMask is the CS RPL bit that distinguishes kernel (ring 0, RPL 0) from
// user (ring 3, RPL 3) code segments on x86 - only bit 0 of RPL is needed
// since the kernel uses just these two rings.
const modeMask = 1

// UserTrap reports whether the frame was taken from user mode or VM86 mode,
// the same test (KiUserTrap(TrapFrame) || TrapFrame->EFlags & EFLAGS_V86_MASK)
// HalpApcInterruptHandler performs before calling KiDeliverApc.
func (t *TrapFrame) UserTrap() bool {
	return t.SegCs&modeMask != 0 || t.EFlags&eflagsVM != 0
}

// VectorKind distinguishes internal (HAL-owned) vectors from
// device-dispatched ones when registering with the IDT.
type VectorKind int

const (
	VectorDevice VectorKind = iota
	VectorInternal
)

// BugcheckCode identifies the fatal condition reported through Bugcheck.
// Only the two codes this core can raise are modeled.
type BugcheckCode uint32

const (
	IrqlNotLessOrEqual    BugcheckCode = 0x0000000A
	IrqlNotGreaterOrEqual BugcheckCode = 0x00000009
)

func (c BugcheckCode) String() string {
	switch c {
	case IrqlNotGreaterOrEqual:
		return "IRQL_NOT_GREATER_OR_EQUAL"
	case IrqlNotLessOrEqual:
		return "IRQL_NOT_LESS_OR_EQUAL"
	default:
		return fmt.Sprintf("BUGCHECK_0x%X", uint32(c))
	}
}

// Upcalls is every external collaborator the core calls into. A real HAL
// wires this to the kernel; tests wire it to a recording fake.
type Upcalls interface {
	// DeliverApc hands control to the kernel's APC delivery routine.
	DeliverApc(mode Mode, trapFrame *TrapFrame)

	// DispatchDpc hands control to the kernel's DPC queue dispatcher.
	DispatchDpc()

	// UnexpectedInterrupt is invoked for replay/trap-handler slots that
	// should never fire (slots 0 and 3 of the software tables).
	UnexpectedInterrupt(slot uint8)

	// Bugcheck reports an unrecoverable invariant violation. It must not
	// return; a real kernel halts the system here.
	Bugcheck(code BugcheckCode, params ...uintptr)

	// RegisterVector installs a vector into the IDT at the given IRQL.
	RegisterVector(kind VectorKind, vector, targetVector uint8, irql uint8)
}
