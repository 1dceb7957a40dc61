// Package moderation 内容生命周期状态机与自动审核策略
package moderation

import (
	"fmt"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
)

// Action 审核动作令牌
type Action string

const (
	ActionSubmit  Action = "submit"  // 作者：draft → submitted
	ActionApprove Action = "approve" // submitted → published
	ActionReject  Action = "reject"  // submitted → rejected
	ActionHide    Action = "hide"    // published → hidden
	ActionRestore Action = "restore" // hidden → published
	ActionDelete  Action = "delete"  // 非迁移：任意状态直接删除
)

type edge struct {
	from   domain.Status
	action Action
}

var transitions = map[edge]domain.Status{
	{domain.StatusDraft, ActionSubmit}:      domain.StatusSubmitted,
	{domain.StatusSubmitted, ActionApprove}: domain.StatusPublished,
	{domain.StatusSubmitted, ActionReject}:  domain.StatusRejected,
	{domain.StatusPublished, ActionHide}:    domain.StatusHidden,
	{domain.StatusHidden, ActionRestore}:    domain.StatusPublished,
}

// ParseAction 未识别的令牌返回 ErrInvalidAction
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionSubmit, ActionApprove, ActionReject, ActionHide, ActionRestore, ActionDelete:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidAction, s)
}

// Next 计算迁移目标；delete 不是迁移，也走 ErrInvalidAction
func Next(from domain.Status, a Action) (domain.Status, error) {
	to, ok := transitions[edge{from, a}]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a %s post", domain.ErrInvalidAction, a, from)
	}
	return to, nil
}

// ModeratorOnly 是否需要 admin 角色
func (a Action) ModeratorOnly() bool { return a != ActionSubmit }

// Publishes 迁移进入公开可见状态
func Publishes(to domain.Status) bool { return to == domain.StatusPublished }
