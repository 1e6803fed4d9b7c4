// Package policy รวม predicate สำหรับเช็คสิทธิ์ ทุกฟังก์ชันเป็น pure function
// ผู้เรียกแปลงผล false เป็น apperror.Forbidden เอง
package policy

import (
	"project-tracker/domain/models"
)

func isActive(actor *models.User) bool {
	return actor != nil && actor.IsActive
}

func isAdmin(actor *models.User) bool {
	return isActive(actor) && actor.IsAdmin
}

func isOwner(actor *models.User, project *models.Project) bool {
	return isActive(actor) && project != nil && project.OwnerID == actor.ID
}

// CanBrowse ผู้ใช้ที่ login และยัง active ดูรายการโปรเจกต์/งานได้
func CanBrowse(actor *models.User) bool {
	return isActive(actor)
}

// CanViewProject โปรเจกต์มองเห็นได้ทั้งองค์กร
func CanViewProject(actor *models.User, project *models.Project) bool {
	return isActive(actor) && project != nil
}

// CanAccessProject admin, owner หรือ member
func CanAccessProject(actor *models.User, project *models.Project) bool {
	if !isActive(actor) || project == nil {
		return false
	}
	return actor.IsAdmin || project.OwnerID == actor.ID || project.HasMember(actor.ID)
}

func CanEditProject(actor *models.User, project *models.Project) bool {
	return isOwner(actor, project)
}

func CanDeleteProject(actor *models.User, project *models.Project) bool {
	return isAdmin(actor) || isOwner(actor, project)
}

func CanCreateProject(actor *models.User) bool {
	return isAdmin(actor)
}

func CanManageMembers(actor *models.User, project *models.Project) bool {
	return isAdmin(actor) || isOwner(actor, project)
}

// CanAccessTask admin, owner ของโปรเจกต์, member หรือผู้รับผิดชอบงาน
func CanAccessTask(actor *models.User, task *models.Task, project *models.Project) bool {
	if !isActive(actor) || task == nil {
		return false
	}
	return CanAccessProject(actor, project) || task.IsAssignedTo(actor.ID)
}

func CanEditTask(actor *models.User) bool {
	return isAdmin(actor)
}

func CanDeleteTask(actor *models.User) bool {
	return isAdmin(actor)
}

func CanGiveFeedback(actor *models.User, project *models.Project) bool {
	return isAdmin(actor) || isOwner(actor, project)
}

func CanManageUsers(actor *models.User) bool {
	return isAdmin(actor)
}

// CanEditProfile ตัวเองหรือ admin
func CanEditProfile(actor *models.User, target *models.User) bool {
	if !isActive(actor) || target == nil {
		return false
	}
	return actor.IsAdmin || actor.ID == target.ID
}

// CanViewProfile ตัวเองหรือ admin
func CanViewProfile(actor *models.User, target *models.User) bool {
	return CanEditProfile(actor, target)
}
