package receipt

import (
	"strings"
	"testing"
	"time"
)

func TestBuilderLayout(t *testing.T) {
	at := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)

	content := NewBuilder().
		Header("UNION TRUST BANK", "ATM-001", at).
		Body("Transaction", "Withdrawal").
		Body("Amount", "500000").
		Separator().
		Footer("Keep this receipt for your records.").
		String()

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	for i, line := range lines {
		if len(line) > Width {
			t.Fatalf("line %d exceeds %d columns: %q", i, Width, line)
		}
	}

	if !strings.Contains(lines[0], "UNION TRUST BANK") {
		t.Fatalf("expected centered bank name, got %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "ATM RECEIPT" {
		t.Fatalf("expected receipt title, got %q", lines[1])
	}
	if lines[2] != strings.Repeat("-", Width) {
		t.Fatalf("expected full-width rule, got %q", lines[2])
	}
	if lines[3] != "Date: 14/03/2025 15:09:26" {
		t.Fatalf("unexpected date line %q", lines[3])
	}
	if lines[4] != "ATM ID: ATM-001" {
		t.Fatalf("unexpected atm line %q", lines[4])
	}
}

func TestBuilderBodyDotFill(t *testing.T) {
	content := NewBuilder().Body("Amount", "500000").String()
	line := strings.TrimRight(content, "\n")

	if len(line) != Width {
		t.Fatalf("expected %d columns, got %d: %q", Width, len(line), line)
	}
	if !strings.HasPrefix(line, "Amount") || !strings.HasSuffix(line, "500000") {
		t.Fatalf("unexpected layout %q", line)
	}
	if !strings.Contains(line, "....") {
		t.Fatalf("expected dot fill in %q", line)
	}
}

func TestBuilderBodyWrapsWidePairs(t *testing.T) {
	label := "A very long transaction label indeed"
	value := "1234567890"

	content := NewBuilder().Body(label, value).String()
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(lines))
	}
	if lines[0] != label {
		t.Fatalf("expected label on its own line, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], value) || len(lines[1]) != Width {
		t.Fatalf("expected right-aligned value, got %q", lines[1])
	}
}

func TestBuilderFooter(t *testing.T) {
	content := NewBuilder().Footer("Contact the bank.").String()
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	if lines[0] != strings.Repeat("=", Width) {
		t.Fatalf("expected footer rule, got %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "Contact the bank." {
		t.Fatalf("expected footer message, got %q", lines[1])
	}
	if strings.TrimSpace(lines[2]) != "Thank you for banking with us." {
		t.Fatalf("expected closing line, got %q", lines[2])
	}
}
