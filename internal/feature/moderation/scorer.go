package moderation

import (
	"context"
	"unicode/utf8"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionHold    Decision = "hold"
)

// Scorer 提交时的自动审核策略，可替换为真实的评分服务
type Scorer interface {
	Evaluate(ctx context.Context, p *domain.Post) (Decision, error)
}

// ScorerFunc 便于测试与临时策略
type ScorerFunc func(ctx context.Context, p *domain.Post) (Decision, error)

func (f ScorerFunc) Evaluate(ctx context.Context, p *domain.Post) (Decision, error) { return f(ctx, p) }

// DefaultMaxChars 短内容阈值
const DefaultMaxChars = 1000

// LengthScorer 占位规则：正文字符数低于阈值直接通过，否则转人工
type LengthScorer struct {
	MaxChars int
}

func (s LengthScorer) Evaluate(_ context.Context, p *domain.Post) (Decision, error) {
	limit := s.MaxChars
	if limit <= 0 {
		limit = DefaultMaxChars
	}
	if utf8.RuneCountInString(p.Content) < limit {
		return DecisionApprove, nil
	}
	return DecisionHold, nil
}
