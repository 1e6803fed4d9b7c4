package dto

import (
	"time"

	"project-tracker/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		Role:      user.Role,
		IsAdmin:   user.IsAdmin,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func UsersToUserResponses(users []*models.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, *UserToUserResponse(u))
	}
	return result
}

func UserToSummary(user *models.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{ID: user.ID, Username: user.Username, FullName: user.FullName()}
}

func ProjectToProjectResponse(project *models.Project) *ProjectResponse {
	if project == nil {
		return nil
	}

	members := make([]MemberResponse, 0, len(project.Members))
	for _, m := range project.Members {
		member := MemberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.CreatedAt}
		if m.User != nil {
			member.Username = m.User.Username
		}
		members = append(members, member)
	}

	features := project.Features
	if features == nil {
		features = []string{}
	}

	return &ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Slug:        project.Slug,
		Description: project.Description,
		Status:      string(project.Status),
		Priority:    string(project.Priority),
		DueDate:     FormatDate(project.DueDate),
		OwnerID:     project.OwnerID,
		Owner:       UserToSummary(project.Owner),
		Members:     members,
		Features:    features,
		ProjectURL:  project.ProjectURL,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func ProjectsToProjectResponses(projects []*models.Project) []ProjectResponse {
	result := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		result = append(result, *ProjectToProjectResponse(p))
	}
	return result
}

func ProjectToDetailResponse(project *models.Project, now time.Time) *ProjectDetailResponse {
	if project == nil {
		return nil
	}
	tasks := make([]TaskResponse, 0, len(project.Tasks))
	for i := range project.Tasks {
		tasks = append(tasks, *TaskToTaskResponse(&project.Tasks[i], now))
	}
	return &ProjectDetailResponse{
		ProjectResponse: *ProjectToProjectResponse(project),
		Tasks:           tasks,
	}
}

func TaskToTaskResponse(task *models.Task, now time.Time) *TaskResponse {
	if task == nil {
		return nil
	}
	return &TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		ParentID:    task.ParentID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		IsCompleted: task.IsCompleted,
		IsOverdue:   task.IsOverdue(now),
		DueDate:     FormatDate(task.DueDate),
		Notes:       task.Notes,
		AssignedTo:  UserToSummary(task.AssignedTo),
		CreatedByID: task.CreatedByID,
		CreatedBy:   UserToSummary(task.CreatedBy),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func TasksToTaskResponses(tasks []*models.Task, now time.Time) []TaskResponse {
	result := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, *TaskToTaskResponse(t, now))
	}
	return result
}

func TaskToDetailResponse(task *models.Task, now time.Time) *TaskDetailResponse {
	if task == nil {
		return nil
	}

	subtasks := make([]TaskResponse, 0, len(task.Subtasks))
	for i := range task.Subtasks {
		subtasks = append(subtasks, *TaskToTaskResponse(&task.Subtasks[i], now))
	}
	feedback := make([]FeedbackResponse, 0, len(task.Feedback))
	for i := range task.Feedback {
		feedback = append(feedback, *FeedbackToResponse(&task.Feedback[i]))
	}
	submissions := make([]SubmissionResponse, 0, len(task.Submissions))
	for i := range task.Submissions {
		submissions = append(submissions, *SubmissionToResponse(&task.Submissions[i]))
	}

	return &TaskDetailResponse{
		TaskResponse: *TaskToTaskResponse(task, now),
		Subtasks:     subtasks,
		Feedback:     feedback,
		Submissions:  submissions,
	}
}

func FeedbackToResponse(f *models.Feedback) *FeedbackResponse {
	if f == nil {
		return nil
	}
	return &FeedbackResponse{
		ID:        f.ID,
		TaskID:    f.TaskID,
		Author:    UserToSummary(f.Author),
		Content:   f.Content,
		CreatedAt: f.CreatedAt,
	}
}

func SubmissionToResponse(s *models.Submission) *SubmissionResponse {
	if s == nil {
		return nil
	}
	return &SubmissionResponse{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Submitter: UserToSummary(s.Submitter),
		Content:   s.Content,
		URL:       s.URL,
		CreatedAt: s.CreatedAt,
	}
}
