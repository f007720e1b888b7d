// Package domain 定义仪表盘网关的领域模型：用户角色、身份信息与登录契约。
// 领域模型独立于外部依赖（HTTP、存储等）。
package domain

// Role 定义平台用户角色类型
type Role string

const (
	RoleStudent     Role = "student"      // 学生
	RoleClubAdmin   Role = "club_admin"   // 社团管理员
	RoleSchoolAdmin Role = "school_admin" // 校级管理员
	RoleTeacher     Role = "teacher"      // 教师
)

// Valid 判断角色是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleClubAdmin, RoleSchoolAdmin, RoleTeacher:
		return true
	}
	return false
}

// In 判断角色是否属于给定角色集合
func (r Role) In(roles []Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// UserProfile 表示上游返回的用户身份信息
// 字段与上游 /user/profile 接口的返回保持一致
type UserProfile struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	RealName  string `json:"realName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 表示登录成功后上游下发的身份数据
type LoginResult struct {
	Token    string `json:"token"`
	Role     Role   `json:"role"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}
