package services

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrTokenNotFound        = errors.New("refresh token not found or expired")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrBlogNotFound         = errors.New("blog not found")
	ErrCommunityNotFound    = errors.New("community not found")
	ErrBlobNotFound         = errors.New("blob not found")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
)
