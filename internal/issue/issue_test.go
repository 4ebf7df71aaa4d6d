// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalog_Complete(t *testing.T) {
	t.Parallel()

	ids := []Id{
		ManifestNotFoundId,
		ManifestParseErrorId,
		CommandConflictId,
		InvalidPhraseId,
		ChoiceNotInteractiveId,
		ScriptExecutionFailedId,
		ConfigLoadFailedId,
		NoHandlerId,
	}
	for _, id := range ids {
		i := Get(id)
		if i == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if i.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, i.Id())
		}
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", id)
		}
	}

	values := Values()
	if len(values) != len(ids) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(ids))
	}
	for i, v := range values {
		if v.Id() != ids[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), ids[i])
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	i := &Issue{id: 42, mdMsg: "# Title\n\nBody text", docLinks: []HttpLink{"https://example.com/docs"}}
	out, err := i.Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"Title", "Body text", "See also", "https://example.com/docs"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
}

func TestIssue_DocLinksAreCloned(t *testing.T) {
	t.Parallel()

	i := &Issue{docLinks: []HttpLink{"a"}}
	links := i.DocLinks()
	links[0] = "changed"
	if i.DocLinks()[0] != "a" {
		t.Error("DocLinks() should return a copy")
	}
}
