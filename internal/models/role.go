// Package models содержит доменные структуры системы управления проектами:
// пользователей, проекты, задачи, вехи и вложения, а также типы ролей
// и структуры для приёма данных из JSON-запросов.
package models

// Role представляет роль пользователя в системе.
// Каждому пользователю назначается ровно одна роль.
type Role string

const (
	// RoleAdmin — администратор, имеет доступ ко всем операциям.
	RoleAdmin Role = "ADMIN"
	// RoleProjectManager — менеджер проектов, управляет своими проектами и их задачами.
	RoleProjectManager Role = "PROJECT_MANAGER"
	// RoleDeveloper — разработчик, работает с назначенными ему задачами.
	RoleDeveloper Role = "DEVELOPER"
)

// Action описывает действие, на которое выдается разрешение.
type Action string

// Действия, используемые в таблице разрешений.
const (
	ActionManageUsers    Action = "users.manage"
	ActionCreateProject  Action = "projects.create"
	ActionCreateTask     Action = "tasks.create"
	ActionViewResources  Action = "resources.view"
	ActionManageOwned    Action = "owned.manage"
	ActionWorkOnAssigned Action = "assigned.work"
)

// rolePermissions — статическая таблица соответствия роли и разрешенных действий.
var rolePermissions = map[Role][]Action{
	RoleAdmin: {
		ActionManageUsers, ActionCreateProject, ActionCreateTask,
		ActionViewResources, ActionManageOwned, ActionWorkOnAssigned,
	},
	RoleProjectManager: {
		ActionCreateProject, ActionCreateTask,
		ActionViewResources, ActionManageOwned,
	},
	RoleDeveloper: {
		ActionViewResources, ActionWorkOnAssigned,
	},
}

// Valid возвращает true, если роль известна системе.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Allows возвращает true, если роли разрешено действие action.
func (r Role) Allows(action Action) bool {
	for _, a := range rolePermissions[r] {
		if a == action {
			return true
		}
	}
	return false
}
