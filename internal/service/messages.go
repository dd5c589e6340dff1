package service

import (
	"errors"
	"strings"
)

// LoadErrorMessage turns an Open error into the text shown to the user.
func LoadErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoData):
		return "No data found in data file"
	case errors.Is(err, ErrFetchFailed):
		return "Error loading data file: " + strings.TrimPrefix(err.Error(), ErrFetchFailed.Error()+" ")
	case errors.Is(err, ErrDecodeFailed):
		return "Error parsing data file: " + strings.TrimPrefix(err.Error(), ErrDecodeFailed.Error()+": ")
	case errors.Is(err, ErrUnknownEntry):
		return "This data file is no longer in the catalog"
	default:
		return "Something went wrong. Please try again later."
	}
}
