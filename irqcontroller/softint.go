package irqcontroller

import "halcore/kernelapi"

// RequestSoftwareInterrupt latches irql (ApcLevel or DispatchLevel) as
// pending in Irr and, if the CPU isn't already running at or above the
// level that would require, services it immediately via the same
// replay path a deferred hardware IRQ uses.
func (c *Controller) RequestSoftwareInterrupt(irql KIrql) {
	wasEnabled := c.flags.Disable()
	defer c.flags.Restore(wasEnabled)

	c.irr |= 1 << irql
	pending := SoftIrqlFromIrr[c.irr&7]
	if pending > c.irql {
		c.replay(pending)
	}
}

// ClearSoftwareInterrupt unlatches irql from Irr without touching
// anything else.
func (c *Controller) ClearSoftwareInterrupt(irql KIrql) {
	c.irr &^= 1 << irql
}

// apcInterrupt is the zero-argument replay path for a deferred APC
// (SWInterruptHandlerTable[ApcLevel] in the original, invoked with no
// trap frame available because the call site is a plain function call
// deep inside KfLowerIrql/HalEndSystemInterrupt, not a real vector
// dispatch). It delegates to the shared body with a nil trap frame.
func (c *Controller) apcInterrupt() {
	c.runApcInterrupt(nil)
}

// ApcInterrupt is the real IDT vector entry for the APC software
// interrupt: the kernel has taken a trap, built trapFrame, and jumped
// here because APC_LEVEL's vector fired.
func (c *Controller) ApcInterrupt(trapFrame *kernelapi.TrapFrame) {
	c.runApcInterrupt(trapFrame)
}

// ApcInterrupt2ndEntry is identical to ApcInterrupt; the original
// distinguishes them only because one entry point additionally builds a
// synthetic trap stack from the interrupted context's saved registers
// before falling into the same shared body - a detail of real hardware
// IRET framing that doesn't apply to this core's trap frame model.
func (c *Controller) ApcInterrupt2ndEntry(trapFrame *kernelapi.TrapFrame) {
	c.runApcInterrupt(trapFrame)
}

func (c *Controller) runApcInterrupt(trapFrame *kernelapi.TrapFrame) {
	old := c.irql
	c.irql = ApcLevel
	c.irr &^= 1 << ApcLevel

	c.flags.Enable()
	mode := kernelapi.KernelMode
	if trapFrame != nil && trapFrame.UserTrap() {
		mode = kernelapi.UserMode
	}
	c.upcalls.DeliverApc(mode, trapFrame)
	c.flags.Disable()

	c.endSoftwareInterrupt(old, trapFrame)
}

// dispatchInterrupt2nd is the zero-argument replay path for a deferred
// DPC (SWInterruptHandlerTable[DispatchLevel] in the original,
// HalpDispatchInterrupt2). Unlike apcInterrupt, which ends through
// endSoftwareInterrupt, it runs dispatchInterruptTail: once
// KiDispatchInterrupt completes it restores IRQL, re-checks Irr against
// it and replays once more if anything else preempts it.
func (c *Controller) dispatchInterrupt2nd() {
	c.dispatchInterruptTail()
}

// DispatchInterrupt is the real IDT vector entry for the DPC software
// interrupt.
func (c *Controller) DispatchInterrupt(trapFrame *kernelapi.TrapFrame) {
	old := c.runDispatchInterrupt()
	c.endSoftwareInterrupt(old, trapFrame)
}

// DispatchInterrupt2ndEntry is DispatchInterrupt's 2nd-entry twin; see
// ApcInterrupt2ndEntry.
func (c *Controller) DispatchInterrupt2ndEntry(trapFrame *kernelapi.TrapFrame) {
	c.DispatchInterrupt(trapFrame)
}

func (c *Controller) runDispatchInterrupt() KIrql {
	old := c.irql
	c.irql = DispatchLevel
	c.irr &^= 1 << DispatchLevel

	c.flags.Enable()
	c.upcalls.DispatchDpc()
	c.flags.Disable()

	return old
}

// dispatchInterruptTail is HalpDispatchInterrupt2: run the DPC queue,
// restore the saved IRQL, then replay whatever that IRQL's preempt mask
// still allows through exactly once more - the tail a deferred DPC needs
// after it finishes, since nothing else will naturally re-check Irr on
// its behalf.
func (c *Controller) dispatchInterruptTail() {
	old := c.runDispatchInterrupt()
	c.irql = old
	c.drainOnce(old)
}

// endSoftwareInterrupt restores old as the current IRQL, replays the
// hardware interrupts old's preempt mask still lets through (unless a
// delayed interrupt is already in service), and, if a software slot
// (APC/DPC) is left pending, hands off to its 2nd-entry handler -
// matching HalpEndSoftwareInterrupt's tail behavior for the software
// interrupt entries above.
func (c *Controller) endSoftwareInterrupt(old KIrql, trapFrame *kernelapi.TrapFrame) {
	c.irql = old
	if next := c.drainOnSoftwareInterruptEnd(old, trapFrame); next != nil {
		next(trapFrame)
	}
}
