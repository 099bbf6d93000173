package util

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserProgressNotFound = errors.New("user progress not found")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseEmpty          = errors.New("course is empty")
	ErrNoActiveCourse       = errors.New("no active course")
	ErrHeartsFull           = errors.New("hearts are already full")
	ErrNotEnoughPoints      = errors.New("not enough points")
	ErrPaymentProvider      = errors.New("payment provider error")
	ErrInvalidContent       = errors.New("invalid content")
)

// IsNotFound 判断是否属于资源不存在类错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUserProgressNotFound) ||
		errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrCourseNotFound)
}
