package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotObject 请求体或文档中的元素不是 JSON 对象
var ErrNotObject = errors.New("record must be a JSON object")

type field struct {
	name  string
	value jsoniter.RawMessage
}

// Record 原样保存的 JSON 对象：字段顺序、未知字段、null、空数组、任意类型的值都保留，
// 只在过滤和 upsert 时按需读取个别字段
type Record struct {
	fields []field
}

// NewRecord 按 name, value 成对构造记录，value 必须能被编码
func NewRecord(keysAndValues ...interface{}) Record {
	if len(keysAndValues)%2 != 0 {
		panic("model: NewRecord needs name/value pairs")
	}
	var r Record
	for i := 0; i < len(keysAndValues); i += 2 {
		name, ok := keysAndValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("model: field name %v is not a string", keysAndValues[i]))
		}
		r = r.With(name, keysAndValues[i+1])
	}
	return r
}

// With 返回设置了 name 字段的副本；已存在的字段原位替换
func (r Record) With(name string, v interface{}) Record {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("model: encode field %q: %v", name, err))
	}
	out := Record{fields: make([]field, len(r.fields), len(r.fields)+1)}
	copy(out.fields, r.fields)
	out.fields = setField(out.fields, name, raw)
	return out
}

func setField(fields []field, name string, value jsoniter.RawMessage) []field {
	for i := range fields {
		if fields[i].name == name {
			fields[i].value = value
			return fields
		}
	}
	return append(fields, field{name: name, value: value})
}

// Get 字段的原始 JSON；缺失时 ok 为 false
func (r Record) Get(name string) (jsoniter.RawMessage, bool) {
	for _, f := range r.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

// Text 字段的展示文本：字符串取其内容，其他类型取 JSON 文本，缺失或 null 为空
func (r Record) Text(name string) string {
	raw, ok := r.Get(name)
	if !ok {
		return ""
	}
	v := json.Get(raw)
	switch v.ValueType() {
	case jsoniter.NilValue:
		return ""
	case jsoniter.StringValue:
		return v.ToString()
	default:
		return string(raw)
	}
}

// KeyOf 字段的比较键
func (r Record) KeyOf(name string) Key {
	raw, ok := r.Get(name)
	if !ok {
		return Undefined
	}
	return keyOf(raw)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	iter := json.BorrowIterator(b)
	defer json.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return ErrNotObject
	}

	var fields []field
	iter.ReadObjectCB(func(it *jsoniter.Iterator, name string) bool {
		fields = setField(fields, name, skipValue(it))
		return true
	})
	if iter.Error != nil && iter.Error != io.EOF {
		return fmt.Errorf("decode record: %w", iter.Error)
	}

	r.fields = fields
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// skipValue 读出下一个值的原始 JSON，去掉前导空白
func skipValue(it *jsoniter.Iterator) jsoniter.RawMessage {
	raw := bytes.TrimLeft(it.SkipAndReturnBytes(), " \t\n\r")
	return append(jsoniter.RawMessage(nil), raw...)
}

// String 记录的 JSON 文本
func (r Record) String() string {
	b, _ := r.MarshalJSON()
	return string(b)
}

// Key 与严格相等一致的比较键：类型不同不相等，数字按数值比较，
// 缺失字段之间相等（Undefined），null 之间相等
type Key string

const Undefined Key = ""

func keyOf(raw jsoniter.RawMessage) Key {
	v := json.Get(raw)
	switch v.ValueType() {
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return Key("b:" + strconv.FormatBool(v.ToBool()))
	case jsoniter.NumberValue:
		f := v.ToFloat64()
		if f == 0 {
			f = 0 // -0
		}
		return Key("n:" + strconv.FormatFloat(f, 'g', -1, 64))
	case jsoniter.StringValue:
		return Key("s:" + v.ToString())
	default:
		return Key("o:" + string(raw))
	}
}

// toNumber 按 Number() 的规则转换；无法转换（NaN）时 ok 为 false
func toNumber(raw jsoniter.RawMessage) (float64, bool) {
	v := json.Get(raw)
	switch v.ValueType() {
	case jsoniter.NilValue:
		return 0, true
	case jsoniter.BoolValue:
		if v.ToBool() {
			return 1, true
		}
		return 0, true
	case jsoniter.NumberValue:
		return v.ToFloat64(), true
	case jsoniter.StringValue:
		s := strings.TrimSpace(v.ToString())
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// isNumber 原始值是否为 JSON 数字
func isNumber(raw jsoniter.RawMessage) bool {
	return json.Get(raw).ValueType() == jsoniter.NumberValue
}
