package gateway

import (
	"net/http"

	"github.com/yesyes/campus-club-gateway/internal/fallback"
)

// Route 声明一个命名转发端点。
// 入站路径与上游路径一一对应，Path 中的 :param 仅用于路由匹配。
type Route struct {
	Method string
	Path   string
	// ForwardsAuth 为 false 的公开端点不拷贝入站 Authorization
	ForwardsAuth bool
	// FallbackKey 非空表示该端点允许兜底替换（仅限五个只读端点）
	FallbackKey fallback.Key
	// ExtendedWait 使用验证码端点的更长等待预算
	ExtendedWait bool
	// TolerateTimeout 超时后返回提示性成功信封：上游的邮件副作用
	// 可能已经发生，调用方只是没等到确认
	TolerateTimeout bool
}

// Routes 返回完整的命名端点表。表外的 /api 请求走兜底代理。
func Routes() []Route {
	return []Route{
		// 用户
		{Method: http.MethodPost, Path: "/api/user/login"},
		{Method: http.MethodPost, Path: "/api/user/register"},
		{Method: http.MethodPost, Path: "/api/user/send-verify-code", ExtendedWait: true, TolerateTimeout: true},
		{Method: http.MethodPost, Path: "/api/user/verify-email"},
		{Method: http.MethodGet, Path: "/api/user/profile", ForwardsAuth: true},
		{Method: http.MethodPut, Path: "/api/user/profile", ForwardsAuth: true},
		{Method: http.MethodPut, Path: "/api/user/password", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/user/credit-points", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/user/credit-ranking", ForwardsAuth: true},

		// 社团活动
		{Method: http.MethodGet, Path: "/api/clubs/activities", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/clubs/activities/:id", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/clubs/activities/:id/sign-up", ForwardsAuth: true},
		{Method: http.MethodDelete, Path: "/api/clubs/activities/:id/sign-up", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/clubs/activities/:id/check-in", ForwardsAuth: true},

		// 社团（用户视角）
		{Method: http.MethodGet, Path: "/api/club-user/joined-clubs", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/club-user/all-clubs", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/club-user/joined-activities", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/club-user/all-activities", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/club-user/points-leaderboard", ForwardsAuth: true, FallbackKey: fallback.KeyLeaderboard},
		{Method: http.MethodGet, Path: "/api/club-user/activity-recommendations", ForwardsAuth: true, FallbackKey: fallback.KeyRecommendations},
		{Method: http.MethodGet, Path: "/api/club-user/:id", ForwardsAuth: true},

		// 社团
		{Method: http.MethodGet, Path: "/api/clubs", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/clubs/all", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/clubs/apply", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/clubs/:id/join", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/clubs/:id/quit", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/clubs/:id/application-status", ForwardsAuth: true},
		{Method: http.MethodDelete, Path: "/api/clubs/:id/withdraw", ForwardsAuth: true},

		// 社团管理员
		{Method: http.MethodGet, Path: "/api/admin/club/info", ForwardsAuth: true},
		{Method: http.MethodPut, Path: "/api/admin/club", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/admin/club/members", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/admin/club/activities", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/admin/club/activities", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/admin/club/activities/:id", ForwardsAuth: true},
		{Method: http.MethodPut, Path: "/api/admin/club/activities/:id", ForwardsAuth: true},
		{Method: http.MethodDelete, Path: "/api/admin/club/activities/:id", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/admin/club/activities/:id/check-in-code", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/admin/club/activities/:id/participants", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/admin/club/activities/:id/check-in-stats", ForwardsAuth: true},
		{Method: http.MethodPut, Path: "/api/admin/club/members/:id/role", ForwardsAuth: true},
		{Method: http.MethodDelete, Path: "/api/admin/club/members/:id", ForwardsAuth: true},

		// 系统管理员
		{Method: http.MethodGet, Path: "/api/admin/system/clubs/pending", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/admin/system/clubs/:id/review", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/admin/system/activities/pending", ForwardsAuth: true},
		{Method: http.MethodPost, Path: "/api/admin/system/activities/:id/review", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/admin/system/statistics", ForwardsAuth: true, FallbackKey: fallback.KeyStatistics},
		{Method: http.MethodGet, Path: "/api/admin/system/logs", ForwardsAuth: true, FallbackKey: fallback.KeyLogs},
		{Method: http.MethodGet, Path: "/api/admin/system/users", ForwardsAuth: true, FallbackKey: fallback.KeyUsers},

		// 活动推荐
		{Method: http.MethodGet, Path: "/api/activities/recommend/personal", ForwardsAuth: true},
		{Method: http.MethodGet, Path: "/api/activities/recommend/similar/:activityId", ForwardsAuth: true},
	}
}
