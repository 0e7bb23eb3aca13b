package irqcontroller_test

import (
	"testing"

	"halcore/irqcontroller"
	"halcore/kernelapi"
	"halcore/platform"
	"halcore/ports"
)

type testRig struct {
	bus     *ports.FakeBus
	flags   *platform.FakeFlags
	synth   *platform.FakeSyntheticInterrupt
	upcalls *kernelapi.FakeUpcalls
	ctrl    *irqcontroller.Controller
}

func newRig() *testRig {
	r := &testRig{
		bus:     ports.NewFakeBus(),
		flags:   platform.NewFakeFlags(),
		synth:   &platform.FakeSyntheticInterrupt{},
		upcalls: &kernelapi.FakeUpcalls{},
	}
	r.ctrl = irqcontroller.NewController(r.bus, r.flags, r.synth, r.upcalls)
	return r
}

func TestInitializePicsProgramsIcwSequenceAndMasksAllButCascade(t *testing.T) {
	r := newRig()
	if err := r.ctrl.InitializePics(true); err != nil {
		t.Fatalf("InitializePics: %v", err)
	}

	if got := r.bus.Reg(irqcontroller.Pic1DataPort); got&(1<<irqcontroller.CascadeIrq) != 0 {
		t.Errorf("master data port = 0x%02x, cascade IRQ should be unmasked (bit clear)", got)
	}
	if got, want := r.bus.Reg(irqcontroller.Pic1DataPort), uint8(0xFF&^(1<<irqcontroller.CascadeIrq)); got != want {
		t.Errorf("master mask = 0x%02x, want 0x%02x (everything but cascade masked)", got, want)
	}
	if got := r.bus.Reg(irqcontroller.Pic2DataPort); got != 0xFF {
		t.Errorf("slave mask = 0x%02x, want 0xff (fully masked, no slave line enabled yet)", got)
	}

	if r.flags.EnableCalls == 0 {
		t.Error("InitializePics(true) should leave interrupts enabled via Enable()")
	}
	if r.flags.RestoreCalls != 0 {
		t.Error("InitializePics(true) should not call Restore; it unconditionally enables")
	}

	found := false
	for _, v := range r.upcalls.RegisteredVectors {
		if v.Vector == irqcontroller.IrqToVector(irqcontroller.CascadeIrq) && v.Irql == uint8(irqcontroller.HighLevel) {
			found = true
		}
	}
	if !found {
		t.Error("InitializePics should register the cascade vector at HighLevel")
	}
}

func TestInitializePicsFalseRestoresPriorFlagState(t *testing.T) {
	r := newRig()
	r.flags.Enabled = false

	if err := r.ctrl.InitializePics(false); err != nil {
		t.Fatalf("InitializePics: %v", err)
	}
	if r.flags.Enabled {
		t.Error("InitializePics(false) should restore the pre-call (disabled) state")
	}
	if r.flags.EnableCalls != 0 {
		t.Error("InitializePics(false) should not unconditionally enable")
	}
}

func TestInitializePicsRejectsReservedElcrBits(t *testing.T) {
	r := newRig()
	// IRQ0 (clock) reported level-triggered: always invalid.
	r.bus.SetReg(irqcontroller.Elcr1Port, 0x01)

	if err := r.ctrl.InitializePics(true); err == nil {
		t.Fatal("InitializePics should reject ELCR claiming IRQ0 is level-triggered")
	}
}

func TestInitializePicsPromotesLevelLinesFromElcr(t *testing.T) {
	r := newRig()
	r.bus.SetReg(irqcontroller.Elcr1Port, 1<<5) // IRQ5 level-triggered

	if err := r.ctrl.InitializePics(true); err != nil {
		t.Fatalf("InitializePics: %v", err)
	}

	// A level-triggered line reprograms the PIC mask to the target's table
	// entry as part of dismissal, even when the interrupt is accepted;
	// an edge line does not touch the mask on accept. Enable IRQ5 first
	// so EnableSystemInterrupt doesn't need the mask pre-seeded by a test.
	r.ctrl.EnableSystemInterrupt(irqcontroller.IrqToVector(5), irqcontroller.LevelSensitive)
	before := len(r.bus.OutLog)

	target := irqcontroller.VectorToIrql(irqcontroller.IrqToVector(5))
	accepted, _ := r.ctrl.BeginSystemInterrupt(target, irqcontroller.IrqToVector(5))
	if !accepted {
		t.Fatal("BeginSystemInterrupt should accept an interrupt above PassiveLevel")
	}
	if len(r.bus.OutLog) == before {
		t.Error("a promoted (level) line should reprogram the PIC mask during dismissal")
	}
}

func TestEnableSystemInterruptRejectsOutOfRangeVector(t *testing.T) {
	r := newRig()
	if err := r.ctrl.InitializePics(true); err != nil {
		t.Fatalf("InitializePics: %v", err)
	}
	// irq >= Clock2Level is the exact out-of-range test the HAL performs;
	// VectorToIrq(vector) can exceed the 16 primary lines if a caller
	// passes a vector far outside the remapped range.
	outOfRange := irqcontroller.PrimaryVectorBase + uint8(irqcontroller.Clock2Level)
	if r.ctrl.EnableSystemInterrupt(outOfRange, irqcontroller.EdgeSensitive) {
		t.Error("EnableSystemInterrupt should reject irq >= Clock2Level")
	}
}

func TestEnableSystemInterruptUnmasksLine(t *testing.T) {
	r := newRig()
	if err := r.ctrl.InitializePics(true); err != nil {
		t.Fatalf("InitializePics: %v", err)
	}

	if !r.ctrl.EnableSystemInterrupt(irqcontroller.IrqToVector(3), irqcontroller.EdgeSensitive) {
		t.Fatal("EnableSystemInterrupt should accept a primary-PIC vector")
	}
	if got := r.bus.Reg(irqcontroller.Pic1DataPort); got&(1<<3) != 0 {
		t.Errorf("master mask = 0x%02x, IRQ3 should now be unmasked", got)
	}
}

func TestDisableSystemInterruptMasksLineAndLeavesInterruptsEnabled(t *testing.T) {
	r := newRig()
	if err := r.ctrl.InitializePics(true); err != nil {
		t.Fatalf("InitializePics: %v", err)
	}
	r.ctrl.EnableSystemInterrupt(irqcontroller.IrqToVector(3), irqcontroller.EdgeSensitive)

	before := r.flags.EnableCalls
	r.ctrl.DisableSystemInterrupt(irqcontroller.IrqToVector(3))

	if got := r.bus.Reg(irqcontroller.Pic1DataPort); got&(1<<3) == 0 {
		t.Errorf("master mask = 0x%02x, IRQ3 should be masked again", got)
	}
	if r.flags.EnableCalls != before+1 {
		t.Error("DisableSystemInterrupt should unconditionally call Enable on return")
	}
}
