package service

import (
	"github.com/samber/lo"

	"worksync/internal/dto"
	"worksync/internal/model"
)

func toUserResponse(u *model.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt,
	}
}

func toUserSummary(u *model.User) *dto.UserSummary {
	if u == nil {
		return nil
	}
	return &dto.UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
	}
}

func toUserSummaries(users []model.User) []*dto.UserSummary {
	return lo.Map(users, func(u model.User, _ int) *dto.UserSummary {
		return toUserSummary(&u)
	})
}

func toTeamResponse(t *model.Team) *dto.TeamResponse {
	return &dto.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Image:       t.Image,
		Admin:       toUserSummary(t.Admin),
		Members: lo.Map(t.Members, func(m model.TeamMember, _ int) *dto.TeamMemberResponse {
			return &dto.TeamMemberResponse{
				User:     toUserSummary(m.User),
				Role:     m.Role,
				JoinedAt: m.JoinedAt,
			}
		}),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toProjectResponse(p *model.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		Admin:       toUserSummary(p.Admin),
		Members:     toUserSummaries(p.Members),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toTaskResponse(t *model.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		AssignedTo:  toUserSummaries(t.Assignees),
		Notes: lo.Map(t.Notes, func(n model.TaskNote, _ int) *dto.TaskNoteResponse {
			return &dto.TaskNoteResponse{Text: n.Text, CreatedBy: n.CreatedBy, CreatedAt: n.CreatedAt}
		}),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Project != nil {
		resp.Project = &dto.ProjectSummary{ID: t.Project.ID, Name: t.Project.Name}
	}
	return resp
}

func toTaskResponses(tasks []*model.Task) []*dto.TaskResponse {
	return lo.Map(tasks, func(t *model.Task, _ int) *dto.TaskResponse {
		return toTaskResponse(t)
	})
}

func toMessageResponse(m *model.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:      m.ID,
		Content: m.Content,
		Sender:  toUserSummary(m.Sender),
		TeamID:  m.TeamID,
		ReadBy: lo.Map(m.ReadBy, func(u model.User, _ int) int64 {
			return u.ID
		}),
		IsEdited:  m.IsEdited,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toNotificationResponse(n *model.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.TriggeredBy != nil {
		resp.TriggeredBy = &dto.UserSummary{ID: n.TriggeredBy.ID, Name: n.TriggeredBy.Name, Email: n.TriggeredBy.Email}
	}
	if n.RelatedTask != nil {
		resp.RelatedTask = &dto.NotificationTask{ID: n.RelatedTask.ID, Title: n.RelatedTask.Title}
	}
	if n.RelatedTeam != nil {
		resp.RelatedTeam = &dto.TeamSummary{ID: n.RelatedTeam.ID, Name: n.RelatedTeam.Name}
	}
	return resp
}
