// Package fallback 提供上游不可用时的静态兜底数据。
// 数据在编译期固定，运行期只读，仅用于维持五个只读看板接口的展示；
// 任何写操作都不允许使用兜底数据。
package fallback

import (
	"bytes"
	"encoding/json"
)

// Key 标识一个兜底数据条目
type Key string

// 允许兜底的五个只读接口
const (
	KeyStatistics      Key = "statistics"
	KeyLogs            Key = "logs"
	KeyUsers           Key = "users"
	KeyLeaderboard     Key = "points-leaderboard"
	KeyRecommendations Key = "activity-recommendations"
)

// Lookup 按键取出兜底数据。返回的是副本，调用方可以安全持有。
func Lookup(k Key) (json.RawMessage, bool) {
	v, ok := datasets[k]
	if !ok {
		return nil, false
	}
	return bytes.Clone(v), true
}

// Keys 返回全部兜底键，顺序固定
func Keys() []Key {
	return []Key{KeyStatistics, KeyLogs, KeyUsers, KeyLeaderboard, KeyRecommendations}
}

// datasets 的取值沿用既有网关内置的演示数据，不从任何运行期状态推导。
var datasets = map[Key]json.RawMessage{
	KeyStatistics: json.RawMessage(`{
		"ongoingActivities": 2,
		"totalUsers": 6,
		"activeUsers": 5,
		"totalActivities": 3,
		"pendingClubs": 1,
		"totalClubs": 2
	}`),

	KeyLogs: json.RawMessage(`[
		{"log_id":14655,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getAllClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:18","params":"[]","operation":"获取全部社团列表","username":"xkj","status":1},
		{"log_id":14654,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedActivities()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:18","params":"[]","operation":"获取用户已参加的活动","username":"xkj","status":1},
		{"log_id":14653,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:18","params":"[]","operation":"获取用户已加入的社团","username":"xkj","status":1},
		{"log_id":14652,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getAllClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:18","params":"[]","operation":"获取全部社团列表","username":"xkj","status":1},
		{"log_id":14651,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:17","params":"[]","operation":"获取用户已加入的社团","username":"xkj","status":1},
		{"log_id":14650,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:17","params":"[]","operation":"获取用户已加入的社团","username":"xkj","status":1},
		{"log_id":14649,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getClubDetail()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:17","params":"[2]","operation":"获取具体社团信息","username":"xkj","status":1},
		{"log_id":14648,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getClubDetail()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:17","params":"[2]","operation":"获取具体社团信息","username":"xkj","status":1},
		{"log_id":14647,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:16","params":"[]","operation":"获取用户已加入的社团","username":"xkj","status":1},
		{"log_id":14646,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedActivities()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:16","params":"[]","operation":"获取用户已参加的活动","username":"xkj","status":1},
		{"log_id":14645,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getAllClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:16","params":"[]","operation":"获取全部社团列表","username":"xkj","status":1},
		{"log_id":14644,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:16","params":"[]","operation":"获取用户已加入的社团","username":"xkj","status":1},
		{"log_id":14643,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getJoinedActivities()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:16","params":"[]","operation":"获取用户已参加的活动","username":"xkj","status":1},
		{"log_id":14642,"method":"org.yesyes.CampusClubSys.controller.ClubUserController.getAllClubs()","user_id":5,"ip":"127.0.0.1","created_at":"2025-03-14T12:09:16","params":"[]","operation":"获取全部社团列表","username":"xkj","status":1}
	]`),

	KeyUsers: json.RawMessage(`[
		{"userId":1,"username":"max","password":null,"realName":"张三","email":"1799572420@qq.com","phone":"13800138000","gender":"male","studentId":"220012","teacherId":"","department":"计算机科学与技术学院","className":"计科2101","role":"club_admin","status":"active","birthdate":null,"avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","createdAt":"2025-03-07T22:55:27","lastLogin":"2025-03-14T16:42:00","emailVerified":false,"phoneVerified":false},
		{"userId":2,"username":"admin","password":null,"realName":"系统管理员","email":"admin@campus.com","phone":null,"gender":null,"studentId":null,"teacherId":null,"department":null,"className":null,"role":"school_admin","status":"active","birthdate":null,"avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","createdAt":"2025-03-08T10:28:44","lastLogin":"2025-03-14T17:32:33","emailVerified":true,"phoneVerified":false},
		{"userId":3,"username":"zhang","password":null,"realName":"张老师","email":"2577870094@qq.com","phone":"232323232","gender":"male","studentId":null,"teacherId":"001","department":null,"className":null,"role":"teacher","status":"active","birthdate":null,"avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","createdAt":"2025-03-08T10:52:58","lastLogin":null,"emailVerified":false,"phoneVerified":false},
		{"userId":4,"username":"zzw","password":null,"realName":"zzw","email":"test1@maxtr.cn","phone":"2323232","gender":"male","studentId":"22002","teacherId":"null","department":"计算机科学与技术学院","className":"计科2101","role":"student","status":"active","birthdate":null,"avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","createdAt":"2025-03-08T11:41:35","lastLogin":"2025-03-08T23:51:14","emailVerified":true,"phoneVerified":false},
		{"userId":5,"username":"xkj","password":null,"realName":"xkj","email":"test2@maxtr.cn","phone":"121232","gender":"male","studentId":"22003","teacherId":null,"department":"计算机科学与技术学院","className":"计科2101","role":"student","status":"active","birthdate":null,"avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","createdAt":"2025-03-08T13:33:53","lastLogin":"2025-03-14T12:09:12","emailVerified":false,"phoneVerified":false},
		{"userId":6,"username":"wjj","password":null,"realName":"wjj","email":"test5@maxtr.cn","phone":"222233","gender":"male","studentId":"22004","teacherId":null,"department":"计算机科学与技术学院","className":"004","role":"student","status":"active","birthdate":null,"avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","createdAt":"2025-03-08T17:14:44","lastLogin":"2025-03-08T17:21:47","emailVerified":false,"phoneVerified":false}
	]`),

	KeyLeaderboard: json.RawMessage(`[
		{"userId":1,"username":"max","realName":"张三","avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","points":150,"rank":1},
		{"userId":4,"username":"zzw","realName":"zzw","avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","points":120,"rank":2},
		{"userId":5,"username":"xkj","realName":"xkj","avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","points":100,"rank":3},
		{"userId":6,"username":"wjj","realName":"wjj","avatarUrl":"https://bucket.maxtral.fun/2025/03/08/67cc4090016c3.jpg","points":80,"rank":4}
	]`),

	KeyRecommendations: json.RawMessage(`[
		{"activityId":1,"title":"编程马拉松","clubName":"编程俱乐部","startTime":"2024-03-25T09:00:00","endTime":"2024-03-25T18:00:00","location":"计算机科学楼102","maxParticipants":50,"currentParticipants":30,"creditPoints":2,"matchScore":0.95,"tags":["编程","比赛","团队活动"]},
		{"activityId":2,"title":"人工智能讲座","clubName":"AI研究社","startTime":"2024-03-26T14:00:00","endTime":"2024-03-26T16:00:00","location":"图书馆报告厅","maxParticipants":100,"currentParticipants":45,"creditPoints":1,"matchScore":0.88,"tags":["讲座","AI","学术"]},
		{"activityId":3,"title":"创新创业工作坊","clubName":"创业协会","startTime":"2024-03-27T15:00:00","endTime":"2024-03-27T17:00:00","location":"创新创业中心","maxParticipants":30,"currentParticipants":15,"creditPoints":1.5,"matchScore":0.82,"tags":["创业","工作坊","实践"]}
	]`),
}
