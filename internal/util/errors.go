package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrTrilhaNotFound   = errors.New("trilha not found")
	ErrConteudoNotFound = errors.New("conteudo not found")
	ErrAlreadyEnrolled  = errors.New("user already enrolled in trilha")
	ErrInvalidProgress  = errors.New("progress must be between 0 and 100")
	ErrInvalidGrade     = errors.New("grade must be between 0 and 100")
	ErrInvalidMetric    = errors.New("unknown ranking metric")
)
