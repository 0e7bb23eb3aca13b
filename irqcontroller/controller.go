package irqcontroller

import (
	"fmt"
	"log"

	"halcore/kernelapi"
	"halcore/platform"
	"halcore/ports"
)

// Controller is the per-CPU interrupt-arbitration control block: the
// uniprocessor analogue of KPCR's Irql/IRR/IDR/IrrActive fields, plus the
// collaborators needed to actually act on them. There is exactly one of
// these per CPU; this module only targets a uniprocessor machine, so one
// Controller per process is the expected shape.
type Controller struct {
	irql      KIrql
	irr       uint32
	idr       uint32
	irrActive uint32

	dismissByIrq [16]dismissKind
	replayByIrql [20]replaySlot

	bus     ports.Bus
	flags   platform.InterruptFlags
	synth   platform.SyntheticInterrupt
	upcalls kernelapi.Upcalls

	elcr uint16

	Debug bool
}

// NewController builds a Controller with every hardware IRQ's dismissal
// and replay entries in their default (edge) shape. Call InitializePics
// to program the hardware and promote level-triggered lines.
func NewController(bus ports.Bus, flags platform.InterruptFlags, synth platform.SyntheticInterrupt, upcalls kernelapi.Upcalls) *Controller {
	c := &Controller{
		bus:     bus,
		flags:   flags,
		synth:   synth,
		upcalls: upcalls,
		idr:     0,
	}

	for irq := range c.dismissByIrq {
		c.dismissByIrq[irq] = edgeGeneric
	}
	c.dismissByIrq[7] = edgeIR7
	c.dismissByIrq[13] = edgeIR13
	c.dismissByIrq[15] = edgeIR15

	c.replayByIrql[0] = replayUnexpected
	c.replayByIrql[ApcLevel] = replayApc
	c.replayByIrql[DispatchLevel] = replayDispatchInner
	c.replayByIrql[3] = replayUnexpected
	for irq := 0; irq < 16; irq++ {
		c.replayByIrql[irq+4] = replayHardware
	}

	return c
}

func (c *Controller) debugf(format string, args ...any) {
	if c.Debug {
		log.Printf("irqcontroller: "+format, args...)
	}
}

// InitializePics programs both 8259As into the standard cascade
// configuration (ICW1-4), masks every line but the cascade, reads back the ELCR to
// discover level-triggered lines and promotes their dismiss/replay
// entries accordingly, and registers IRQ 2 (the cascade line) with the
// kernel's vector table at HighLevel. enableInterrupts controls whether
// CPU interrupts are left enabled on return, mirroring
// HalpInitializePICs's EnableInterrupts parameter.
func (c *Controller) InitializePics(enableInterrupts bool) error {
	wasEnabled := c.flags.Disable()
	defer func() {
		if enableInterrupts {
			c.flags.Enable()
		} else {
			c.flags.Restore(wasEnabled)
		}
	}()

	c.programIcwSequence()

	elcrMaster := c.bus.In8(Elcr1Port)
	elcrSlave := c.bus.In8(Elcr2Port)
	elcr := uint16(elcrSlave)<<8 | uint16(elcrMaster)

	const reservedEdgeMask = 1<<0 | 1<<1 | 1<<2 | 1<<8 | 1<<13
	if elcr&reservedEdgeMask != 0 {
		return fmt.Errorf("irqcontroller: ELCR reports a reserved IRQ (0,1,2,8,13) as level-triggered: 0x%04x", elcr)
	}

	c.elcr = elcr
	for irq := 0; irq < 16; irq++ {
		if elcr&(1<<irq) != 0 {
			c.promoteToLevel(uint8(irq))
		}
	}

	c.upcalls.RegisterVector(kernelapi.VectorInternal, IrqToVector(CascadeIrq), IrqToVector(CascadeIrq), uint8(HighLevel))
	c.debugf("InitializePics: elcr=0x%04x", elcr)
	return nil
}

func (c *Controller) programIcwSequence() {
	// ICW1: edge-triggered, cascade mode, ICW4 follows.
	c.bus.Out8(Pic1CommandPort, icw1Init|icw1Icw4)
	c.bus.Out8(Pic2CommandPort, icw1Init|icw1Icw4)

	// ICW2: vector offsets. Master gets PrimaryVectorBase, slave gets
	// PrimaryVectorBase+8.
	c.bus.Out8(Pic1DataPort, IrqToVector(0))
	c.bus.Out8(Pic2DataPort, IrqToVector(8))

	// ICW3: master is told the slave hangs off IRQ2 (bitmask); slave is
	// told its cascade identity (2, as a binary value not a bitmask).
	c.bus.Out8(Pic1DataPort, 1<<CascadeIrq)
	c.bus.Out8(Pic2DataPort, CascadeIrq)

	// ICW4: 8086/8088 mode, not auto-EOI, not buffered.
	c.bus.Out8(Pic1DataPort, icw4_8086)
	c.bus.Out8(Pic2DataPort, icw4_8086)

	// Mask everything except the cascade line until a driver enables its IRQ.
	c.idr = 0xFFFF &^ (1 << CascadeIrq)
	c.bus.Out8(Pic1DataPort, uint8(c.idr&0xFF))
	c.bus.Out8(Pic2DataPort, uint8(c.idr>>8))
}

func (c *Controller) promoteToLevel(irq uint8) {
	switch irq {
	case 7:
		c.dismissByIrq[irq] = levelIR7
	case 13:
		c.dismissByIrq[irq] = levelIR13
	case 15:
		c.dismissByIrq[irq] = levelIR15
	default:
		c.dismissByIrq[irq] = levelGeneric
	}
	c.replayByIrql[irq+4] = replayHardwareLevel
}

// CurrentIrql reports the CPU's current software priority level.
func (c *Controller) CurrentIrql() KIrql {
	return c.irql
}

func (c *Controller) programPicMask(mask uint32) {
	both := (mask | c.idr) & 0xFFFF
	c.bus.Out8(Pic1DataPort, uint8(both&0xFF))
	c.bus.Out8(Pic2DataPort, uint8(both>>8))
}
