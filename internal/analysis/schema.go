package analysis

import "github.com/santhosh-tekuri/jsonschema/v5"

// 检测阶段回复的结构约束：顶层对象必须携带 items 数组，数组元素为
// 带名称键的对象。名称键与宽松解码保持同一组候选
// （item_name/name/item）；数值字段类型不在此约束
// （宽松解码阶段负责矫正字符串数字）。
const detectionSchemaJSON = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "anyOf": [
          {"required": ["item_name"]},
          {"required": ["name"]},
          {"required": ["item"]}
        ]
      }
    }
  }
}`

var detectionSchema = jsonschema.MustCompileString("detection.schema.json", detectionSchemaJSON)
