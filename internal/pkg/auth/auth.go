package auth

import (
	"github.com/samber/lo"

	"worksync/internal/model"
	"worksync/pkg/constants"
)

// ValidTeamRole 团队角色只允许 Manager / Member
func ValidTeamRole(role string) bool {
	return lo.Contains(constants.TeamRoles, role)
}

// IsTeamAdmin 是否团队创建者
func IsTeamAdmin(team *model.Team, userID int64) bool {
	return team != nil && team.AdminID == userID
}

// IsTeamMember 是否在成员列表中（不含 admin）
func IsTeamMember(team *model.Team, userID int64) bool {
	if team == nil {
		return false
	}
	return lo.ContainsBy(team.Members, func(m model.TeamMember) bool {
		return m.UserID == userID
	})
}

// CanViewTeam admin 或成员
func CanViewTeam(team *model.Team, userID int64) bool {
	return IsTeamAdmin(team, userID) || IsTeamMember(team, userID)
}

// FindTeamMember 查找成员记录
func FindTeamMember(team *model.Team, userID int64) (*model.TeamMember, bool) {
	if team == nil {
		return nil, false
	}
	_, idx, ok := lo.FindIndexOf(team.Members, func(m model.TeamMember) bool {
		return m.UserID == userID
	})
	if !ok {
		return nil, false
	}
	return &team.Members[idx], true
}

// IsProjectAdmin 是否项目创建者
func IsProjectAdmin(project *model.Project, userID int64) bool {
	return project != nil && project.AdminID == userID
}

// IsProjectMember 是否项目成员
func IsProjectMember(project *model.Project, userID int64) bool {
	if project == nil {
		return false
	}
	return lo.ContainsBy(project.Members, func(u model.User) bool {
		return u.ID == userID
	})
}

// CanViewProject admin 或成员
func CanViewProject(project *model.Project, userID int64) bool {
	return IsProjectAdmin(project, userID) || IsProjectMember(project, userID)
}

// IsTaskAssignee 是否任务负责人
func IsTaskAssignee(task *model.Task, userID int64) bool {
	if task == nil {
		return false
	}
	return lo.Contains(task.AssigneeIDs(), userID)
}

// CanViewTask 负责人或所属项目 admin 可见
func CanViewTask(task *model.Task, project *model.Project, userID int64) bool {
	return IsTaskAssignee(task, userID) || IsProjectAdmin(project, userID)
}

// CanUpdateTask 与可见规则一致：项目 admin 或负责人
func CanUpdateTask(task *model.Task, project *model.Project, userID int64) bool {
	return CanViewTask(task, project, userID)
}

// CanDeleteTask 只有项目 admin 可删除
func CanDeleteTask(project *model.Project, userID int64) bool {
	return IsProjectAdmin(project, userID)
}
