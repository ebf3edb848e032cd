// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

func TestBuildMessages_CitationPolicyText(t *testing.T) {
	req := types.GenerationRequest{Lang: "fr", Subject: "Lait de chamelle", Keywords: []string{"lait"}}
	base := attemptParams{Lang: "fr", LeadStyle: types.LeadAnalogy, Paragraphs: 9, FAQCount: 8, MinSentences: 4, MaxInline: 3}

	none := base
	none.Mode = types.CitationNone
	msgs, err := buildMessages(req, nil, none)
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Text, "ZERO inline PMIDs")
	assert.Contains(t, msgs[0].Text, "writing in fr")
	assert.Contains(t, msgs[0].Text, "lead style: analogy")
	assert.NotContains(t, msgs[0].Text, "Avoid these phrases")

	limited := base
	limited.Mode = types.CitationLimited
	limited.Allowed = []string{"111111", "222222"}
	limited.BanPhrases = []string{"alpha", "beta"}
	msgs, err = buildMessages(req, nil, limited)
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Text, "AT MOST 3 inline PMIDs")
	assert.Contains(t, msgs[0].Text, "[111111,222222]")
	assert.Contains(t, msgs[0].Text, "• alpha • beta.")
	assert.Contains(t, msgs[1].Text, `"allowedPmids":["111111","222222"]`)
	assert.Contains(t, msgs[1].Text, `"references":[]`)
}
