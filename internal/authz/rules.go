package authz

import (
	"strings"

	"github.com/yesyes/campus-club-gateway/internal/domain"
	"github.com/yesyes/campus-club-gateway/internal/session"
)

// Rule 是一条静态声明的路由授权规则
type Rule struct {
	// Pattern 路由模式，":" 开头的段匹配任意单段
	Pattern string
	// Roles 允许访问的角色集合，Public 规则忽略此字段
	Roles []domain.Role
	// Public 公开路由，不需要会话
	Public bool
}

var allAuthenticated = []domain.Role{
	domain.RoleStudent,
	domain.RoleClubAdmin,
	domain.RoleSchoolAdmin,
}

// rules 各界面的授权规则，按界面静态声明
var rules = []Rule{
	{Pattern: "/login", Public: true},
	{Pattern: "/register", Public: true},
	{Pattern: "/unauthorized", Public: true},
	{Pattern: "/", Public: true},
	{Pattern: "/dashboard", Public: true},
	{Pattern: "/clubs/apply", Public: true},

	{Pattern: "/profile", Roles: allAuthenticated},
	{Pattern: "/profile/edit", Roles: allAuthenticated},
	{Pattern: "/clubs/:id", Roles: allAuthenticated},

	{Pattern: "/student", Roles: []domain.Role{domain.RoleStudent}},
	{Pattern: "/student/clubs", Roles: []domain.Role{domain.RoleStudent}},
	{Pattern: "/student/clubs/:id", Roles: []domain.Role{domain.RoleStudent}},
	{Pattern: "/student/activities", Roles: []domain.Role{domain.RoleStudent}},
	{Pattern: "/student/calendar", Roles: []domain.Role{domain.RoleStudent}},

	{Pattern: "/club-admin", Roles: []domain.Role{domain.RoleClubAdmin}},
	{Pattern: "/club-admin/info", Roles: []domain.Role{domain.RoleClubAdmin}},
	{Pattern: "/club-admin/members", Roles: []domain.Role{domain.RoleClubAdmin}},
	{Pattern: "/club-admin/activities", Roles: []domain.Role{domain.RoleClubAdmin}},

	{Pattern: "/system-admin", Roles: []domain.Role{domain.RoleSchoolAdmin}},
	{Pattern: "/system-admin/users", Roles: []domain.Role{domain.RoleSchoolAdmin}},
	{Pattern: "/system-admin/clubs", Roles: []domain.Role{domain.RoleSchoolAdmin}},
	{Pattern: "/system-admin/logs", Roles: []domain.Role{domain.RoleSchoolAdmin}},
	{Pattern: "/system-admin/clubs/review", Roles: []domain.Role{domain.RoleSchoolAdmin}},
	{Pattern: "/system-admin/activities/review", Roles: []domain.Role{domain.RoleSchoolAdmin}},

	{Pattern: "/search", Roles: []domain.Role{
		domain.RoleStudent,
		domain.RoleTeacher,
		domain.RoleClubAdmin,
		domain.RoleSchoolAdmin,
	}},
}

// Rules 返回全部授权规则
func Rules() []Rule {
	return rules
}

// RuleFor 查找路径命中的规则。
// 字面段优先于参数段，找不到时返回 false。
func RuleFor(path string) (Rule, bool) {
	segs := splitPath(path)

	var best Rule
	bestScore := -1
	for _, r := range rules {
		score, ok := matchScore(splitPath(r.Pattern), segs)
		if ok && score > bestScore {
			best = r
			bestScore = score
		}
	}
	if bestScore < 0 {
		return Rule{}, false
	}
	return best, true
}

// Evaluate 对路径访问做出判定：
// 公开路由与表外路由直接放行，其余按规则的角色集合判定。
func Evaluate(path string, snap session.Snapshot) Decision {
	r, ok := RuleFor(path)
	if !ok || r.Public {
		return DecisionAllow
	}
	return Authorize(r.Roles, snap)
}

// matchScore 逐段匹配，字面段计 2 分、参数段计 1 分；
// 段数不一致直接不命中。
func matchScore(pattern, segs []string) (int, bool) {
	if len(pattern) != len(segs) {
		return 0, false
	}
	score := 0
	for i, p := range pattern {
		switch {
		case strings.HasPrefix(p, ":"):
			score++
		case p == segs[i]:
			score += 2
		default:
			return 0, false
		}
	}
	return score, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
