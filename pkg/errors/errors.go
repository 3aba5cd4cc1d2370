package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录在读取之后已被其他请求修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
