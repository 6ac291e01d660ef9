package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimo-draft-api/internal/domain/entity"
)

func TestParse_PlainJSON(t *testing.T) {
	raw := `{"sendType":"SMS","common":{"messageName":"테스트"},"sms":{"contents":{"ko":{"body":"안내 문구"}}},"recommendedCheckTypes":["법률","리스크"]}`

	d, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, entity.SendTypeSMS, d.SendType)
	assert.Equal(t, "안내 문구", d.SMS.Contents["ko"].Body)
	assert.Len(t, d.RecommendedCheckTypes, 2)
}

func TestParse_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"sendType\":\"MMS\",\"common\":{},\"recommendedCheckTypes\":[]}\n```"

	d, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, entity.SendTypeMMS, d.SendType)
}

func TestParse_SurroundingProse(t *testing.T) {
	raw := "다음은 생성된 초안입니다.\n{\"sendType\":\"MMS\",\"common\":{},\"recommendedCheckTypes\":[]}\n참고하세요."

	d, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, entity.SendTypeMMS, d.SendType)
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse("죄송합니다, 초안을 생성할 수 없습니다.")
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}
