package apperr

import "github.com/shopwatchhq/shopwatch/pkg/zerror"

const (
	SourceUnavailableCode = "SOURCE_UNAVAILABLE"
	MalformedDocumentCode = "MALFORMED_DOCUMENT"
	StoreErrorCode        = "STORE_ERROR"
	ConfigurationCode     = "CONFIGURATION_ERROR"
)

var (
	SourceUnavailableErr = zerror.NewSourceUnavailable(SourceUnavailableCode, "price source unavailable")
	MalformedDocumentErr = zerror.NewMalformedDocument(MalformedDocumentCode, "malformed source document")
	StoreErr             = zerror.NewStoreError(StoreErrorCode, "record store error")
	ConfigurationErr     = zerror.NewConfiguration(ConfigurationCode, "configuration error")
)
