package changeset_test

import (
	"testing"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Empty(t *testing.T) {
	for _, raw := range []string{"", "\n", "\r\n"} {
		cs := changeset.Classify(raw)
		assert.True(t, cs.Empty(), "input %q", raw)
		for _, category := range changeset.Categories {
			assert.Empty(t, cs.Paths(category))
		}
	}
}

func TestClassify_Single(t *testing.T) {
	cs := changeset.Classify("M src/a.ts")

	assert.Equal(t, []string{"src/a.ts"}, cs.Modified)
	assert.Empty(t, cs.Added)
	assert.Empty(t, cs.Removed)
	assert.Empty(t, cs.Uncontrolled)
	assert.Empty(t, cs.Updated)
}

func TestClassify_PartitionsAndKeepsOrder(t *testing.T) {
	raw := "M z.txt\r\n" +
		"? new/b.txt\n" +
		"A added.c\n" +
		"C conflict.txt\n" +
		"M a.txt\n" +
		"R gone.txt\n" +
		"cvs update: Updating .\n" +
		"U remote.txt\n" +
		"? new/a.txt\n"

	cs := changeset.Classify(raw)

	assert.Equal(t, []string{"z.txt", "a.txt"}, cs.Modified)
	assert.Equal(t, []string{"added.c"}, cs.Added)
	assert.Equal(t, []string{"gone.txt"}, cs.Removed)
	assert.Equal(t, []string{"new/b.txt", "new/a.txt"}, cs.Uncontrolled)
	assert.Equal(t, []string{"remote.txt"}, cs.Updated)
	assert.Equal(t, 7, cs.Len())
	assert.False(t, cs.Contains(changeset.Modified, "conflict.txt"))
	assert.True(t, cs.Contains(changeset.Updated, "remote.txt"))
}

func TestClassify_OnlyUnknownPrefixes(t *testing.T) {
	cs := changeset.Classify("P patched.txt\nC conflict.txt\n")
	assert.True(t, cs.Empty())
}

func TestRender(t *testing.T) {
	cs := changeset.Classify("M a.txt\nA b.txt\n? c.txt\n")

	expected := "Modified:\n    a.txt\n\nAdded:\n    b.txt\n\nUncontrolled:\n    c.txt"
	assert.Equal(t, expected, cs.Render())
	assert.NotContains(t, cs.Render(), "Removed:")
	assert.NotContains(t, cs.Render(), "Updated:")
}

func TestRender_MultiplePathsPerGroup(t *testing.T) {
	cs := changeset.Classify("U one.txt\nU two.txt\n")
	assert.Equal(t, "Updated:\n    one.txt\n    two.txt", cs.Render())
}

func TestGroups(t *testing.T) {
	cs := changeset.Classify("R x\nM y\n")
	groups := cs.Groups()

	if assert.Len(t, groups, 2) {
		assert.Equal(t, changeset.Modified, groups[0].Category)
		assert.Equal(t, changeset.Removed, groups[1].Category)
	}
}
