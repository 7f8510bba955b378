package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")

	ErrQuestionNotFound = errors.New("question not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrLinkNotFound     = errors.New("link not found")
	ErrPaperNotFound    = errors.New("paper not found")

	// ErrDuplicateLink 同一资源重复挂载同一题目。属于可恢复错误：
	// 批量挂载的调用方应跳过并继续，而不是中断。
	ErrDuplicateLink = errors.New("question already linked to resource")

	ErrChildNotSelectable = errors.New("child question is not independently selectable")
	ErrInvalidParent      = errors.New("parent must be a top-level passage question")
	ErrNoCorrectOption    = errors.New("mcq question requires at least one correct option")
	ErrEmptyPaperTitle    = errors.New("paper title must not be empty")
)
