package util

import "errors"

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrSectionNotFound     = errors.New("section not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrBackendUnauthorized = errors.New("course backend rejected credentials")
	ErrBackendUnavailable  = errors.New("course backend unavailable")
	ErrInvalidVoucher      = errors.New("voucher must be an image or pdf")
	ErrVoucherTooLarge     = errors.New("voucher file too large")
	ErrVoucherNotFound     = errors.New("voucher not found")
)
