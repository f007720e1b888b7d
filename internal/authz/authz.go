// Package authz 实现路由级的角色判定：
// 给定会话快照与目标路由的角色要求，产出唯一的放行或重定向决策。
package authz

import (
	"github.com/yesyes/campus-club-gateway/internal/domain"
	"github.com/yesyes/campus-club-gateway/internal/session"
)

// 重定向目标
const (
	// LoginPath 未登录时的重定向目标
	LoginPath = "/login"
	// UnauthorizedPath 角色不符时的重定向目标
	UnauthorizedPath = "/unauthorized"
)

// Decision 是路由判定的结果
type Decision int

const (
	// DecisionPending 会话仍在认证中，暂缓判定。
	// 此时不得放行也不得重定向，等待会话状态落定后重新判定。
	DecisionPending Decision = iota
	// DecisionAllow 放行
	DecisionAllow
	// DecisionRedirectLogin 无会话，重定向到登录页
	DecisionRedirectLogin
	// DecisionRedirectUnauthorized 角色不符，重定向到无权限页
	DecisionRedirectUnauthorized
)

// String 返回决策名
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "pending"
	}
}

// RedirectPath 返回决策对应的重定向目标，非重定向决策返回空串
func (d Decision) RedirectPath() string {
	switch d {
	case DecisionRedirectLogin:
		return LoginPath
	case DecisionRedirectUnauthorized:
		return UnauthorizedPath
	default:
		return ""
	}
}

// ResolveRole 解析会话的有效角色：已加载的资料优先，
// 其次才是持久化的角色值。
func ResolveRole(snap session.Snapshot) domain.Role {
	if snap.Profile != nil && snap.Profile.Role != "" {
		return snap.Profile.Role
	}
	return snap.PersistedRole
}

// Authorize 对一次路由访问做出判定。
// 纯函数：相同输入永远得到相同决策，不产生任何副作用。
// required 为空表示路由不限角色，有令牌即可访问。
func Authorize(required []domain.Role, snap session.Snapshot) Decision {
	// 认证中：决策必须等会话落定，避免用过期的持久化角色误判
	if snap.State == session.StateAuthenticating {
		return DecisionPending
	}

	if snap.Token == "" {
		return DecisionRedirectLogin
	}

	if len(required) == 0 {
		return DecisionAllow
	}

	role := ResolveRole(snap)
	if role.In(required) {
		return DecisionAllow
	}
	return DecisionRedirectUnauthorized
}
