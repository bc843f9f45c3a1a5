package model

// Problem 练习题记录，约定字段为 id、lcId、title、url，但请求体原样保存
type Problem struct {
	Record
}

// NewProblem 按 name, value 成对构造
func NewProblem(keysAndValues ...interface{}) Problem {
	return Problem{Record: NewRecord(keysAndValues...)}
}

// Key id 字段的比较键
func (p Problem) Key() Key {
	return p.KeyOf("id")
}
