package cmd

import (
	"errors"
	"fmt"

	"VectorConsole/backend/go/internal/console_service/apiclient"
	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
)

// describe 把领域错误转成面向用户的一行提示。
func describe(err error) string {
	var verr *folderconfig.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Field != "" {
			return fmt.Sprintf("invalid %s: %s", verr.Field, verr.Message)
		}
		return verr.Message
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "the API key was rejected; check --api-key or client.apiKey"
	case errors.Is(err, models.ErrNotFound):
		return "not found: " + err.Error()
	case errors.Is(err, models.ErrTransport):
		return "the console API is unavailable, please retry (" + err.Error() + ")"
	default:
		return err.Error()
	}
}
