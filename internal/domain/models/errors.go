package models

import "github.com/pkg/errors"

var (
	ErrServiceUnavailable = errors.New("jobs service is unreachable")
	ErrJobNotFound        = errors.New("job not found")
	ErrFetchFailed        = errors.New("failed to fetch jobs")
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnavailable
	KindNotFound
	KindFailed
)

func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrServiceUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrJobNotFound):
		return KindNotFound
	default:
		return KindFailed
	}
}

func UserMessage(err error) string {
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindUnavailable:
		return "Backend server is not running. Please check that the jobs service is started and reachable."
	case KindNotFound:
		return "The job you're looking for doesn't exist or has been removed."
	default:
		return "Something went wrong. Please try again later."
	}
}
