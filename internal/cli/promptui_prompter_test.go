package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
)

func TestPromptUISelect(t *testing.T) {
	stdin := bytes.NewBufferString("")
	pu := NewPromptUIWithIO(stdin, &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	_, _, err := pu.Select("choose", []string{"first", "second"}, "")
	if err == nil || !errors.Is(err, ErrPromptCancelled) {
		t.Fatalf("expected selection cancellation error")
	}
}

func TestPromptUISelectWithDefault(t *testing.T) {
	stdin := bytes.NewBufferString("")
	pu := NewPromptUIWithIO(stdin, &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	if _, _, err := pu.Select("choose", []string{"alpha", "beta"}, "beta"); err == nil || !errors.Is(err, ErrPromptCancelled) {
		t.Fatalf("expected selection cancellation error")
	}
}

func TestPromptUIPrompt(t *testing.T) {
	stdin := bytes.NewBufferString("")
	pu := NewPromptUIWithIO(stdin, &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	if _, err := pu.Prompt("enter", ""); err == nil || !errors.Is(err, ErrPromptCancelled) {
		t.Fatalf("expected prompt cancellation error")
	}
}

func TestPromptUIConfirm(t *testing.T) {
	stdin := bytes.NewBufferString("")
	pu := NewPromptUIWithIO(stdin, &nopWriteCloser{Writer: bytes.NewBuffer(nil)})
	if ok, err := pu.Confirm("confirm", false); err == nil || !errors.Is(err, ErrPromptCancelled) || ok {
		t.Fatalf("expected confirm cancellation")
	}
}

func TestToReadCloserPassthrough(t *testing.T) {
	reader := io.NopCloser(strings.NewReader("data"))
	if toReadCloser(reader) != reader {
		t.Fatalf("expected toReadCloser to return original read closer")
	}
	rc := toReadCloser(strings.NewReader("data"))
	if err := rc.Close(); err != nil {
		t.Fatalf("expected close to succeed: %v", err)
	}
}

func TestToWriteCloserPassthrough(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := nopWriteCloser{Writer: buf}
	if toWriteCloser(writer) != writer {
		t.Fatalf("expected toWriteCloser to return original write closer")
	}
	if _, err := toWriteCloser(buf).Write([]byte("hi")); err != nil {
		t.Fatalf("expected wrapped writer to accept data: %v", err)
	}
}

func TestPromptDialogs(t *testing.T) {
	t.Run("preset wins", func(t *testing.T) {
		d := &promptDialogs{archive: "/tmp/a.zip", disabled: true}
		if got, err := d.PickArchive(); err != nil || got != "/tmp/a.zip" {
			t.Fatalf("PickArchive = %q, %v", got, err)
		}
	})
	t.Run("disabled", func(t *testing.T) {
		d := &promptDialogs{prompter: &stubPrompter{}, disabled: true}
		if _, err := d.PickInstallDir(); !errors.Is(err, domain.ErrDialogClosed) {
			t.Fatalf("err = %v, want ErrDialogClosed", err)
		}
	})
	t.Run("blank answer", func(t *testing.T) {
		d := &promptDialogs{prompter: &stubPrompter{prompts: []promptResponse{{value: "  "}}}}
		if _, err := d.PickExportDir("main"); !errors.Is(err, domain.ErrDialogClosed) {
			t.Fatalf("err = %v, want ErrDialogClosed", err)
		}
	})
	t.Run("trimmed answer", func(t *testing.T) {
		d := &promptDialogs{prompter: &stubPrompter{prompts: []promptResponse{{value: " /games/lol "}}}}
		if got, err := d.PickInstallDir(); err != nil || got != "/games/lol" {
			t.Fatalf("PickInstallDir = %q, %v", got, err)
		}
	})
	t.Run("other errors pass through", func(t *testing.T) {
		d := &promptDialogs{prompter: &stubPrompter{}}
		if _, err := d.PickArchive(); !errors.Is(err, errStubNoMore) {
			t.Fatalf("err = %v, want errStubNoMore", err)
		}
	})
}
