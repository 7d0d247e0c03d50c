package constants

const (
	MAX_PAGE_SIZE               = 100
	DEFAULT_OFFSET              = uint64(0)
	DEFAULT_TRANSACTIONS_LIMIT  = 20
	DEFAULT_TEMPLATES_LIMIT     = 20
	DEFAULT_DOWNLOADS_LIMIT     = 20
	DEFAULT_PRICE_CHANGES_LIMIT = 20

	MAX_TEMPLATE_NAME_LENGTH        = 255
	MAX_TEMPLATE_DESCRIPTION_LENGTH = 2000
)
