package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesalloc/pkg/allocation"
)

func codes(list ...string) []allocation.ArticleCode {
	out := make([]allocation.ArticleCode, len(list))
	for i, s := range list {
		out[i] = allocation.ArticleCode(s)
	}
	return out
}

func TestMergeIndoorOutdoor(t *testing.T) {
	b := NewBuilder(nil)
	defs, err := b.MergeIndoorOutdoor(codes("CLIM9-I", "CLIM9-O", "CLIM12-I", "LAMP1"))
	require.NoError(t, err)

	require.Len(t, defs, 1, "a lone half of a split unit stays unpaired")
	assert.Equal(t, codes("CLIM9-I", "CLIM9-O"), defs[0])
}

func TestMergeIndoorOutdoor_DuplicateStemFails(t *testing.T) {
	b := NewBuilder(nil)
	_, err := b.MergeIndoorOutdoor(codes("Z9-I", "Z9-O", "Z9 -I"))
	require.Error(t, err)

	var dup *DuplicateBundleError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Z9", dup.Stem)
	assert.Len(t, dup.Articles, 3)
}

func TestMergeByPattern(t *testing.T) {
	b := NewBuilder(nil)
	defs, err := b.MergeByPattern(codes("NCE301A", "NCE301B", "NCE302A", "LAMP1"), `^NCE\d{3}`)
	require.NoError(t, err)

	require.Len(t, defs, 1, "single-article stems do not bundle")
	assert.Equal(t, codes("NCE301A", "NCE301B"), defs[0])
}

func TestMergeByPattern_InvalidRegex(t *testing.T) {
	b := NewBuilder(nil)
	_, err := b.MergeByPattern(codes("A"), `[`)
	assert.Error(t, err)
}

func TestMergeByPatternWithCrossing(t *testing.T) {
	b := NewBuilder(nil)
	defs, err := b.MergeByPatternWithCrossing(codes("NCE301", "NCE302", "LAMP1"), `^NCE\d{3}`, []string{"CMD211"})
	require.NoError(t, err)

	require.Len(t, defs, 2, "every match is crossed with the shared unit")
	assert.Equal(t, codes("NCE301", "CMD211"), defs[0])
	assert.Equal(t, codes("NCE302", "CMD211"), defs[1])
}

func TestMakeDefinitions_MixedRules(t *testing.T) {
	b := NewBuilder([]MergeRule{
		{Name: "split units", Command: AutoMergeIOProducts},
		{Name: "nce family", Command: AutoMergeByPattern, Pattern: `^NCE\d{2}`},
		{Name: "bundle", Command: CombineProducts, Products: []string{"CMD211", "CRG14", "LAMP1"}},
	})

	articles := codes("A9-I", "A9-O", "B7-I", "B7-O", "NCE301", "NCE302", "CMD211", "CRG14")
	defs, err := b.MakeDefinitions(articles)
	require.NoError(t, err)

	// two split pairs, one pattern group, one explicit bundle, then one
	// singleton per article
	require.Len(t, defs, 12)
	assert.Equal(t, codes("CMD211", "CRG14", "LAMP1"), defs[0], "the widest definition leads")
	for _, def := range defs[4:] {
		assert.Len(t, def, 1)
	}
}

func TestMakeDefinitions_UnknownCommand(t *testing.T) {
	b := NewBuilder([]MergeRule{{Name: "bad", Command: Strategy("Nope")}})
	_, err := b.MakeDefinitions(codes("A"))
	assert.Error(t, err)
}

func TestMakeDefinitions_NoRules(t *testing.T) {
	b := NewBuilder(nil)
	defs, err := b.MakeDefinitions(codes("A", "B"))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, codes("A"), defs[0])
	assert.Equal(t, codes("B"), defs[1])
}
