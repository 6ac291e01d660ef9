package draft

import (
	"encoding/json"
	"fmt"

	"mimo-draft-api/internal/domain/entity"
	wfnode "mimo-draft-api/internal/workflow/node"
)

// Parse 把模型的原始文本解析为 MessageDraft。
// 解析失败是硬错误：结构缺字段走校验/修复，而拿不到 JSON 对象没有修复的余地。
func Parse(raw string) (*entity.MessageDraft, error) {
	jsonText := wfnode.ExtractJSONObject(raw)

	var d entity.MessageDraft
	if err := json.Unmarshal([]byte(jsonText), &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}
