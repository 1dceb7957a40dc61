package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

const maxTagLen = 32

type rule struct {
	tag string
	fn  validator.Func
}

// 业务规则：
//
//	poststatus  状态名（含 pending/approved 别名），all 表示不筛选
//	posttag     去空白后非空且不超过 32 字符
var rules = []rule{
	{"poststatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		_, ok := domain.ParseStatus(s)
		return ok || s == "all"
	}},
	{"posttag", func(fl validator.FieldLevel) bool {
		t := strings.TrimSpace(fl.Field().String())
		return t != "" && utf8.RuneCountInString(t) <= maxTagLen
	}},
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators 在 gin 的校验引擎上注册业务规则，只执行一次
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not validator/v10")
			return
		}
		registerErr = registerOn(v, rules)
	})
	return registerErr
}

func registerOn(v *validator.Validate, rs []rule) error {
	for _, r := range rs {
		if err := v.RegisterValidation(r.tag, r.fn); err != nil {
			return fmt.Errorf("register validation %q: %w", r.tag, err)
		}
	}
	return nil
}

// mustRegisterValidators 规则注册失败时 binding 会在运行期 panic，启动时就拦下
func mustRegisterValidators() {
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}
