package console_test

import (
	"testing"

	"halcore/cmd/halctl/console"
)

func TestRaiseAndLowerRoundTrip(t *testing.T) {
	s := console.NewSession()

	if quit, err := s.Run("raise 5"); err != nil || quit {
		t.Fatalf("raise 5: quit=%v err=%v", quit, err)
	}
	if quit, err := s.Run("lower"); err != nil || quit {
		t.Fatalf("lower: quit=%v err=%v", quit, err)
	}
}

func TestLowerWithoutRaiseErrors(t *testing.T) {
	s := console.NewSession()
	if _, err := s.Run("lower"); err == nil {
		t.Error("lower with no prior raise should return an error")
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	s := console.NewSession()
	if _, err := s.Run("frobnicate"); err == nil {
		t.Error("an unknown command should return an error")
	}
}

func TestPrefixMatchingAcceptsAbbreviation(t *testing.T) {
	s := console.NewSession()
	if _, err := s.Run("rai 5"); err != nil {
		t.Errorf("an unambiguous abbreviation of raise should match: %v", err)
	}
}

func TestQuitReportsExit(t *testing.T) {
	s := console.NewSession()
	quit, err := s.Run("quit")
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if !quit {
		t.Error("quit should report the session should exit")
	}
}

func TestIrqDrivesFullLifecycle(t *testing.T) {
	s := console.NewSession()
	if quit, err := s.Run("irq 3"); err != nil || quit {
		t.Fatalf("irq 3: quit=%v err=%v", quit, err)
	}
	if s.Controller.CurrentIrql() != 0 {
		t.Errorf("CurrentIrql() after a full begin/end cycle = %d, want back to 0", s.Controller.CurrentIrql())
	}
}

func TestCompleteFiltersByPrefix(t *testing.T) {
	s := console.NewSession()
	got := s.Complete("ra")
	if len(got) != 1 || got[0] != "raise" {
		t.Errorf("Complete(%q) = %v, want [raise]", "ra", got)
	}
}

func TestEmptyLineIsNoop(t *testing.T) {
	s := console.NewSession()
	quit, err := s.Run("   ")
	if err != nil || quit {
		t.Fatalf("blank line: quit=%v err=%v", quit, err)
	}
}

func TestHelpListsCommands(t *testing.T) {
	s := console.NewSession()
	if _, err := s.Run("help"); err != nil {
		t.Fatalf("help: %v", err)
	}
}

func TestDumpAndMaskDoNotError(t *testing.T) {
	s := console.NewSession()
	if _, err := s.Run("dump"); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if _, err := s.Run("mask"); err != nil {
		t.Fatalf("mask: %v", err)
	}
}
