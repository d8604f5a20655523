// Package authz реализует политику авторизации: проверку ролей
// и процедурные проверки владения ресурсами (менеджер проекта,
// исполнитель задачи). Политики вызываются обработчиками после
// прохождения ролевого фильтра.
package authz

import "errors"

// Таксономия ошибок авторизации. Коды ответов: 401 для Unauthenticated,
// 403 для AccessDenied, 404 для ResourceNotFound.
var (
	// ErrUnauthenticated — запрос к защищенному ресурсу без валидной личности.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccessDenied — личность валидна, но роли или владения недостаточно.
	ErrAccessDenied = errors.New("access denied")
	// ErrResourceNotFound — ресурс, к которому проверяется доступ, не существует.
	ErrResourceNotFound = errors.New("resource not found")
)
