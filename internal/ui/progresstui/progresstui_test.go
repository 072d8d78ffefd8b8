package progresstui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelUpdateAppendsLogLinesAndCapsHistory(t *testing.T) {
	m := newModel("testing")
	for i := 0; i < maxVisibleLines+5; i++ {
		updated, _ := m.Update(logLineMsg("line"))
		m = updated.(model)
	}
	if len(m.lines) != maxVisibleLines {
		t.Errorf("len(lines) = %d, want capped at %d", len(m.lines), maxVisibleLines)
	}
}

func TestModelUpdateDoneMsgMarksFinished(t *testing.T) {
	m := newModel("testing")
	wantErr := errors.New("boom")

	updated, _ := m.Update(doneMsg{err: wantErr})
	m = updated.(model)

	if !m.finished {
		t.Error("expected finished = true after doneMsg")
	}
	if m.err != wantErr {
		t.Errorf("err = %v, want %v", m.err, wantErr)
	}
}

func TestModelUpdateQuitsOnEnterOnlyAfterFinished(t *testing.T) {
	m := newModel("testing")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no quit command before finished")
	}

	m.finished = true
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected a quit command after finished")
	}
}

func TestModelViewShowsFailureAfterNonNilError(t *testing.T) {
	m := newModel("unpacking")
	updated, _ := m.Update(doneMsg{err: errors.New("boom")})
	m = updated.(model)

	view := m.View()
	if !strings.Contains(view, "failed") || !strings.Contains(view, "boom") {
		t.Errorf("View() = %q, want it to mention failure and the error", view)
	}
}
