package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	obj := `{"sendType":"SMS","slideCount":3}`

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", obj, obj},
		{"leading and trailing whitespace", "  \n" + obj + "\n ", obj},
		{"json fence", "```json\n" + obj + "\n```", obj},
		{"bare fence", "```\n" + obj + "\n```", obj},
		{"prose around object", "생성 결과는 다음과 같습니다.\n" + obj + "\n확인 바랍니다.", obj},
		{"fence with prose inside", "```json\n참고:\n" + obj + "\n```", obj},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSONObject(tt.in)
			assert.Equal(t, tt.want, got)

			var m map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(got), &m))
		})
	}
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	obj := `{"common":{"messageName":"새 메시지"},"mms":{"contents":{"ko":{"body":"본문"}}}}`
	got := ExtractJSONObject("결과: " + obj)
	assert.Equal(t, obj, got)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	in := "죄송합니다. 요청을 처리할 수 없습니다."
	got := ExtractJSONObject(in)
	// 原样返回，由调用方的反序列化报错
	assert.Equal(t, in, got)

	assert.Equal(t, "", ExtractJSONObject("  "))
}
