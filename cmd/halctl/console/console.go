// Package console implements halctl's small command grammar over a
// Controller wired to a fake bus, following the table-driven
// name/minimum-match/handler shape of rcornwell-S370's command parser.
package console

import (
	"fmt"
	"strconv"
	"strings"

	"halcore/irqcontroller"
	"halcore/kernelapi"
	"halcore/platform"
	"halcore/ports"
)

type command struct {
	name     string
	min      int
	run      func(*Session, []string) error
	complete bool
}

var commands = []command{
	{name: "raise", min: 1, run: cmdRaise, complete: true},
	{name: "lower", min: 1, run: cmdLower},
	{name: "irq", min: 1, run: cmdIrq, complete: true},
	{name: "dump", min: 1, run: cmdDump},
	{name: "mask", min: 1, run: cmdMask},
	{name: "help", min: 1, run: cmdHelp},
	{name: "quit", min: 1, run: cmdQuit},
}

// Session owns the Controller and its fake collaborators that back a
// halctl run. There is no real kernel or hardware behind it.
type Session struct {
	Controller *irqcontroller.Controller
	Bus        *ports.FakeBus
	Upcalls    *kernelapi.NoopUpcalls
	Flags      *platform.FakeFlags
	Synthetic  *platform.FakeSyntheticInterrupt

	quit   bool
	raised []irqcontroller.KIrql
}

// NewSession builds a Session with a fresh Controller over an entirely
// fake bus/flags/upcalls/synthetic-interrupt stack, then runs the normal
// boot sequence against it.
func NewSession() *Session {
	s := &Session{
		Bus:       ports.NewFakeBus(),
		Upcalls:   &kernelapi.NoopUpcalls{Debug: true},
		Flags:     platform.NewFakeFlags(),
		Synthetic: &platform.FakeSyntheticInterrupt{},
	}
	s.Controller = irqcontroller.NewController(s.Bus, s.Flags, s.Synthetic, s.Upcalls)
	if err := s.Controller.InitializePics(true); err != nil {
		fmt.Println("warning: InitializePics: " + err.Error())
	}
	return s
}

// Run executes one line of input, returning whether the session should
// exit.
func (s *Session) Run(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	name, args := fields[0], fields[1:]
	for _, c := range commands {
		if !strings.HasPrefix(c.name, name) || len(name) < c.min {
			continue
		}
		if err := c.run(s, args); err != nil {
			return false, err
		}
		return s.quit, nil
	}
	return false, fmt.Errorf("unknown command %q", name)
}

// Complete implements tab completion over the command name grammar,
// mirroring reader.go's liner.SetCompleter hookup. Only commands marked
// complete (raise, irq) are offered.
func (s *Session) Complete(partial string) []string {
	var out []string
	for _, c := range commands {
		if c.complete && strings.HasPrefix(c.name, partial) {
			out = append(out, c.name)
		}
	}
	return out
}

func parseIrql(arg string) (irqcontroller.KIrql, error) {
	n, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid IRQL %q: %w", arg, err)
	}
	if n > uint64(irqcontroller.HighLevel) {
		return 0, fmt.Errorf("IRQL %d exceeds HighLevel", n)
	}
	return irqcontroller.KIrql(n), nil
}

func cmdRaise(s *Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: raise <irql>")
	}
	target, err := parseIrql(args[0])
	if err != nil {
		return err
	}
	old := s.Controller.Raise(target)
	s.raised = append(s.raised, old)
	fmt.Printf("raised to %d, was %d\n", target, old)
	return nil
}

func cmdLower(s *Session, args []string) error {
	if len(s.raised) == 0 {
		return fmt.Errorf("nothing to lower: no prior raise")
	}
	old := s.raised[len(s.raised)-1]
	s.raised = s.raised[:len(s.raised)-1]
	s.Controller.Lower(old)
	fmt.Printf("lowered to %d\n", old)
	return nil
}

// cmdIrq drives the full hardware-interrupt lifecycle for one line: dismiss
// at the wire via BeginSystemInterrupt, then - if accepted, the way a real
// device ISR would eventually finish - run EndSystemInterrupt's drain.
func cmdIrq(s *Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: irq <line 0-15>")
	}
	n, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || n > 15 {
		return fmt.Errorf("invalid IRQ line %q", args[0])
	}
	vector := irqcontroller.IrqToVector(uint8(n))
	target := irqcontroller.VectorToIrql(vector)
	accepted, old := s.Controller.BeginSystemInterrupt(target, vector)
	fmt.Printf("IRQ %d: accepted=%v old=%d\n", n, accepted, old)
	if accepted {
		s.Controller.EndSystemInterrupt(old, nil)
	}
	return nil
}

func cmdDump(s *Session, _ []string) error {
	fmt.Printf("irql=%d synthetic=%v\n", s.Controller.CurrentIrql(), s.Synthetic.Raised)
	return nil
}

func cmdMask(s *Session, _ []string) error {
	fmt.Printf("PIC1=0x%02x PIC2=0x%02x\n", s.Bus.Reg(0x21), s.Bus.Reg(0xA1))
	return nil
}

func cmdHelp(s *Session, _ []string) error {
	fmt.Println("commands: raise <irql>, lower, irq <line>, dump, mask, help, quit")
	return nil
}

func cmdQuit(s *Session, _ []string) error {
	s.quit = true
	return nil
}
