package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponseText(t *testing.T) {
	t.Parallel()

	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: `{"producer":`},
			{Type: "thinking", Text: "ignored"},
			{Type: "text", Text: `"Château Margaux"}`},
		},
	}
	assert.Equal(t, `{"producer":"Château Margaux"}`, resp.Text())

	empty := &MessageResponse{}
	assert.Equal(t, "", empty.Text())
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	t.Parallel()

	blocks := BuildCachedSystemBlocks("identify the wine")
	assert.Len(t, blocks, 1)
	assert.Equal(t, "identify the wine", blocks[0].Text)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}
