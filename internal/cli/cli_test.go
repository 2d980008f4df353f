package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

func TestPrintReply(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printReply(&buf, &domain.Reply{Success: true, Message: "İlan yayınlandı", ListingID: 42})
	out := buf.String()
	if !strings.HasPrefix(out, "✓ İlan yayınlandı") {
		t.Errorf("Expected success marker, got %q", out)
	}
	if !strings.Contains(out, "listing: 42") {
		t.Errorf("Expected listing id, got %q", out)
	}

	buf.Reset()
	printReply(&buf, &domain.Reply{Message: "Anlayamadım"})
	out = buf.String()
	if !strings.HasPrefix(out, "! Anlayamadım") {
		t.Errorf("Expected failure marker, got %q", out)
	}
	if strings.Contains(out, "listing:") {
		t.Errorf("Expected no listing line, got %q", out)
	}
}

func TestCommandsRequireArgs(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"send without message", func() error {
			cmd := SendCmd()
			cmd.SetArgs([]string{"905551234567"})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			return cmd.Execute()
		}},
		{"listings without phone", func() error {
			cmd := ListingsCmd()
			cmd.SetArgs([]string{})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			return cmd.Execute()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); err == nil {
				t.Error("Expected argument error")
			}
		})
	}
}

func TestUserAddValidatesFlags(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/tevkil.db")

	cmd := UserCmd()
	cmd.SetArgs([]string{"add", "--email", "a@example.com"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("Expected required flag error, got %v", err)
	}
}

func TestUserAddAndList(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/tevkil.db")
	t.Setenv("DATABASE_URL", "")

	add := UserCmd()
	add.SetArgs([]string{"add", "--email", "a@example.com", "--name", "Av. Ayşe", "--phone", "+905551234567", "--city", "İzmir"})
	if err := add.Execute(); err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}

	dup := UserCmd()
	dup.SetArgs([]string{"add", "--email", "b@example.com", "--name", "Av. B", "--phone", "+905551234567"})
	dup.SetOut(&bytes.Buffer{})
	dup.SetErr(&bytes.Buffer{})
	if err := dup.Execute(); err == nil {
		t.Error("Expected duplicate phone error")
	}
}
