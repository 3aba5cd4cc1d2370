package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Status string `validate:"attendance_status"`
	Kind   string `validate:"bulk_retail"`
	Name   string `validate:"notblank"`
	Date   string `validate:"calendar_date"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := registerAll(v); err != nil {
		t.Fatalf("registerAll 失败: %v", err)
	}
	return v
}

func TestCustomRules(t *testing.T) {
	v := newValidator(t)

	ok := sample{Status: "Half Day", Kind: "retail", Name: "Shirt", Date: "2024-06-01"}
	if err := v.Struct(ok); err != nil {
		t.Fatalf("合法数据不应报错: %v", err)
	}

	tests := []struct {
		name  string
		input sample
		field string
	}{
		{"非法状态", sample{Status: "Leave", Kind: "bulk", Name: "x", Date: "2024-06-01"}, "Status"},
		{"小写状态", sample{Status: "present", Kind: "bulk", Name: "x", Date: "2024-06-01"}, "Status"},
		{"非法类型", sample{Status: "Absent", Kind: "wholesale", Name: "x", Date: "2024-06-01"}, "Kind"},
		{"空白名称", sample{Status: "Absent", Kind: "bulk", Name: "   ", Date: "2024-06-01"}, "Name"},
		{"日期不存在", sample{Status: "Absent", Kind: "bulk", Name: "x", Date: "2024-02-30"}, "Date"},
		{"日期格式", sample{Status: "Absent", Kind: "bulk", Name: "x", Date: "01/06/2024"}, "Date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := Details(v.Struct(tt.input))
			if len(details) != 1 {
				t.Fatalf("期望 1 个字段错误，实际=%v", details)
			}
			if details[0].Field != tt.field {
				t.Errorf("期望字段 %s，实际=%s", tt.field, details[0].Field)
			}
		})
	}
}

func TestRegister_Idempotent(t *testing.T) {
	if err := Register(); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	if err := Register(); err != nil {
		t.Fatalf("重复注册失败: %v", err)
	}
}

func TestDetails_NonValidationError(t *testing.T) {
	if Details(nil) != nil {
		t.Error("nil 错误应返回 nil")
	}
}
