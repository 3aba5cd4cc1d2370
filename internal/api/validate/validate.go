package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bizops/internal/model"
)

var once sync.Once

// Register 向 gin 的 binding 校验器注册业务自定义标签，可重复调用
//   - attendance_status: Present / Absent / Half Day / Holiday
//   - bulk_retail:       bulk / retail
//   - notblank:          去除首尾空白后非空
//   - calendar_date:     YYYY-MM-DD 且为真实日期
func Register() error {
	var err error
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("binding 校验引擎不是 validator/v10")
			return
		}
		err = registerAll(v)
	})
	return err
}

func registerAll(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"attendance_status": func(fl validator.FieldLevel) bool {
			return model.IsValidAttendanceStatus(fl.Field().String())
		},
		"bulk_retail": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == model.BulkRetailBulk || s == model.BulkRetailRetail
		},
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"calendar_date": func(fl validator.FieldLevel) bool {
			_, err := time.Parse(model.DateLayout, fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("注册校验标签 %s 失败: %w", tag, err)
		}
	}
	return nil
}

// FieldError 单个字段的校验失败信息
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Details 将 binding 错误展开为字段级列表；非校验错误（如 JSON 语法错误）返回 nil
func Details(err error) []FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		// 去掉顶层结构体名，保留 Attendance[1].Status 形式
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		out = append(out, FieldError{Field: ns, Rule: fe.Tag()})
	}
	return out
}
