package profile

import (
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/i18nx"
)

var (
	ErrNotFound           = errorx.NewNotFound().WithKey(i18nx.KeyProfileNotFound)
	ErrAlreadyExists      = errorx.NewConflict().WithKey(i18nx.KeyProfileAlreadyExists)
	ErrMediaUploadFailed  = errorx.NewUpstreamServiceError().WithKey(i18nx.KeyMediaUploadFailed)
	ErrMediaUploadTimeout = errorx.NewUpstreamTimeout().WithKey(i18nx.KeyMediaUploadTimeout)
)
